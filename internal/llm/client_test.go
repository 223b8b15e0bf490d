package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TokenSentinel/internal/model"
)

func ollamaClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		Provider:    ProviderOllama,
		OllamaURL:   srv.URL,
		OllamaModel: "llama3",
	})
}

func openAIClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		Provider:      ProviderOpenAI,
		OpenAIBaseURL: srv.URL,
		OpenAIAPIKey:  "test-key",
		OpenAIModel:   "gpt-4o-mini",
	})
}

func TestChat_Ollama(t *testing.T) {
	c := ollamaClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, float64(0), req.Options["temperature"])

		w.Write([]byte(`{"message":{"role":"assistant","content":"DOGS is a jetton."},"done":true}`))
	})

	got, err := c.Chat(context.Background(), []model.ChatMessage{
		{Role: model.RoleUser, Content: "what is DOGS"},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, "DOGS is a jetton.", got)
}

func TestChatStream_OllamaAccumulates(t *testing.T) {
	c := ollamaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":{"content":"DOGS "},"done":false}` + "\n"))
		w.Write([]byte(`{"message":{"content":"is a jetton."},"done":true}` + "\n"))
	})

	var deltas []string
	got, err := c.ChatStream(context.Background(), nil, 0.7, func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)
	assert.Equal(t, "DOGS is a jetton.", got)
	assert.Equal(t, []string{"DOGS ", "is a jetton."}, deltas)
}

func TestChat_OpenAI(t *testing.T) {
	c := openAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	})

	got, err := c.Chat(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestChatStream_OpenAISSE(t *testing.T) {
	c := openAIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"hel\"}}]}\n\n"))
		w.Write([]byte("data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n"))
		w.Write([]byte("data: [DONE]\n\n"))
	})

	got, err := c.ChatStream(context.Background(), nil, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestChat_UpstreamErrorStatus(t *testing.T) {
	c := ollamaClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Chat(context.Background(), nil, 0)
	assert.Error(t, err)
}

func TestChat_OpenAIMissingKey(t *testing.T) {
	c := NewClient(Config{Provider: ProviderOpenAI})
	_, err := c.Chat(context.Background(), nil, 0)
	assert.Error(t, err)
}
