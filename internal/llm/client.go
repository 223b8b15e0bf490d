// Package llm talks to the narrative model. Two providers are supported:
// a local Ollama server and the OpenAI chat completions API, both in
// plain and streaming form. The reply pipeline only uses Chat; ChatStream
// is part of the client's public surface for callers that render tokens
// as they arrive.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"TokenSentinel/internal/model"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"

	defaultOpenAIBaseURL = "https://api.openai.com"
	defaultTimeout       = 60 * time.Second
)

// Config selects the provider and its endpoint.
type Config struct {
	Provider      string
	OllamaURL     string
	OllamaModel   string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	Timeout       time.Duration
}

// Client is safe for concurrent use.
type Client struct {
	cfg    Config
	client *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.Provider == "" {
		cfg.Provider = ProviderOllama
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = defaultOpenAIBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) Provider() string { return c.cfg.Provider }

// Model returns the active model name for the configured provider.
func (c *Client) Model() string {
	if c.cfg.Provider == ProviderOpenAI {
		return c.cfg.OpenAIModel
	}
	return c.cfg.OllamaModel
}

// Chat sends a non-streaming request and returns the full reply.
func (c *Client) Chat(ctx context.Context, messages []model.ChatMessage, temperature float64) (string, error) {
	if c.cfg.Provider == ProviderOpenAI {
		return c.chatOpenAI(ctx, messages, temperature)
	}
	return c.chatOllama(ctx, messages, temperature)
}

// ChatStream streams the reply, calling onDelta for each content chunk,
// and returns the accumulated text.
func (c *Client) ChatStream(ctx context.Context, messages []model.ChatMessage, temperature float64, onDelta func(string)) (string, error) {
	if c.cfg.Provider == ProviderOpenAI {
		return c.streamOpenAI(ctx, messages, temperature, onDelta)
	}
	return c.streamOllama(ctx, messages, temperature, onDelta)
}

type ollamaRequest struct {
	Model    string              `json:"model"`
	Messages []model.ChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Options  map[string]any      `json:"options"`
}

type ollamaResponse struct {
	Message model.ChatMessage `json:"message"`
	Done    bool              `json:"done"`
}

func (c *Client) chatOllama(ctx context.Context, messages []model.ChatMessage, temperature float64) (string, error) {
	body, err := c.postOllama(ctx, messages, temperature, false)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var resp ollamaResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode ollama response: %w", err)
	}
	return resp.Message.Content, nil
}

func (c *Client) streamOllama(ctx context.Context, messages []model.ChatMessage, temperature float64, onDelta func(string)) (string, error) {
	body, err := c.postOllama(ctx, messages, temperature, true)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var chunk ollamaResponse
		if err := json.Unmarshal(line, &chunk); err != nil {
			continue
		}
		if chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			if onDelta != nil {
				onDelta(chunk.Message.Content)
			}
		}
		if chunk.Done {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("read ollama stream: %w", err)
	}
	return full.String(), nil
}

func (c *Client) postOllama(ctx context.Context, messages []model.ChatMessage, temperature float64, stream bool) (io.ReadCloser, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:    c.cfg.OllamaModel,
		Messages: messages,
		Stream:   stream,
		Options:  map[string]any{"temperature": temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("encode ollama request: %w", err)
	}

	url := strings.TrimRight(c.cfg.OllamaURL, "/") + "/api/chat"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

type openAIRequest struct {
	Model       string              `json:"model"`
	Messages    []model.ChatMessage `json:"messages"`
	Stream      bool                `json:"stream"`
	Temperature float64             `json:"temperature"`
}

type openAIResponse struct {
	Choices []struct {
		Message model.ChatMessage `json:"message"`
		Delta   struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func (c *Client) chatOpenAI(ctx context.Context, messages []model.ChatMessage, temperature float64) (string, error) {
	body, err := c.postOpenAI(ctx, messages, temperature, false)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var resp openAIResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) streamOpenAI(ctx context.Context, messages []model.ChatMessage, temperature float64, onDelta func(string)) (string, error) {
	body, err := c.postOpenAI(ctx, messages, temperature, true)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var full strings.Builder
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}
		var chunk openAIResponse
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			continue
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta != "" {
			full.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("read openai stream: %w", err)
	}
	return full.String(), nil
}

func (c *Client) postOpenAI(ctx context.Context, messages []model.ChatMessage, temperature float64, stream bool) (io.ReadCloser, error) {
	if c.cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("openai api key is not set")
	}
	payload, err := json.Marshal(openAIRequest{
		Model:       c.cfg.OpenAIModel,
		Messages:    messages,
		Stream:      stream,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encode openai request: %w", err)
	}

	url := strings.TrimRight(c.cfg.OpenAIBaseURL, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("openai returned status %d", resp.StatusCode)
	}
	return resp.Body, nil
}
