// Package bot is the Telegram front: a thin Bot API client plus the
// long-polling loop that feeds messages into the answer pipeline.
package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// maxMessageLength is the Telegram hard limit per message.
const maxMessageLength = 4096

// API wraps the handful of Bot API methods the bot needs.
type API struct {
	Token   string
	BaseURL string
	Client  *http.Client

	// Telegram allows around 30 messages per second bot-wide; writes
	// share this limiter.
	limiter *rate.Limiter
}

// NewAPI creates a client with optional proxy support.
func NewAPI(token, proxyURL string) *API {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &API{
		Token:   token,
		BaseURL: "https://api.telegram.org",
		Client: &http.Client{
			Timeout:   40 * time.Second,
			Transport: transport,
		},
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
}

// Update is one long-polling update: a text message or a button press.
type Update struct {
	UpdateID int `json:"update_id"`
	Message  *struct {
		MessageID int    `json:"message_id"`
		Text      string `json:"text"`
		Chat      struct {
			ID int64 `json:"id"`
		} `json:"chat"`
		From *struct {
			ID           int64  `json:"id"`
			Username     string `json:"username"`
			FirstName    string `json:"first_name"`
			LastName     string `json:"last_name"`
			LanguageCode string `json:"language_code"`
		} `json:"from"`
	} `json:"message"`
	CallbackQuery *struct {
		ID   string `json:"id"`
		Data string `json:"data"`
		From *struct {
			ID int64 `json:"id"`
		} `json:"from"`
		Message *struct {
			MessageID int `json:"message_id"`
			Chat      struct {
				ID int64 `json:"id"`
			} `json:"chat"`
		} `json:"message"`
	} `json:"callback_query"`
}

// InlineKeyboard is the reply_markup payload for inline buttons.
type InlineKeyboard struct {
	InlineKeyboard [][]InlineButton `json:"inline_keyboard"`
}

type InlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

// SendMessage sends text to a chat and returns the new message id.
func (a *API) SendMessage(ctx context.Context, chatID int64, text string) (int, error) {
	return a.SendMessageMarkup(ctx, chatID, text, nil)
}

// SendMessageMarkup sends text with an optional inline keyboard attached.
func (a *API) SendMessageMarkup(ctx context.Context, chatID int64, text string, markup *InlineKeyboard) (int, error) {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    Truncate(text, maxMessageLength),
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	raw, err := a.call(ctx, "sendMessage", payload)
	if err != nil {
		return 0, err
	}
	var sent struct {
		MessageID int `json:"message_id"`
	}
	if err := json.Unmarshal(raw, &sent); err != nil {
		return 0, fmt.Errorf("decode sendMessage result: %w", err)
	}
	return sent.MessageID, nil
}

// EditMessage replaces the text of an already sent message.
func (a *API) EditMessage(ctx context.Context, chatID int64, messageID int, text string) error {
	return a.EditMessageMarkup(ctx, chatID, messageID, text, nil)
}

// EditMessageMarkup replaces the text and keyboard of a sent message.
func (a *API) EditMessageMarkup(ctx context.Context, chatID int64, messageID int, text string, markup *InlineKeyboard) error {
	payload := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       Truncate(text, maxMessageLength),
	}
	if markup != nil {
		payload["reply_markup"] = markup
	}
	_, err := a.call(ctx, "editMessageText", payload)
	return err
}

// AnswerCallback acknowledges a button press so the client stops spinning.
func (a *API) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := a.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
		"text":              text,
	})
	return err
}

// GetUpdates long-polls for updates starting at offset.
func (a *API) GetUpdates(ctx context.Context, offset, timeoutSec int) ([]Update, error) {
	apiURL := fmt.Sprintf("%s/bot%s/getUpdates?offset=%d&timeout=%d", a.BaseURL, a.Token, offset, timeoutSec)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("poll updates: %w", err)
	}
	defer resp.Body.Close()

	var parsed struct {
		OK     bool     `json:"ok"`
		Result []Update `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode updates: %w", err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram getUpdates not ok")
	}
	return parsed.Result, nil
}

// DeleteWebhook removes a leftover webhook so long polling can start.
func (a *API) DeleteWebhook(ctx context.Context) error {
	_, err := a.call(ctx, "deleteWebhook", map[string]any{})
	return err
}

func (a *API) call(ctx context.Context, method string, payload map[string]any) (json.RawMessage, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", method, err)
	}

	apiURL := fmt.Sprintf("%s/bot%s/%s", a.BaseURL, a.Token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", method, err)
	}

	var parsed apiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", method, err)
	}
	if !parsed.OK {
		return nil, fmt.Errorf("telegram %s failed: %s", method, parsed.Description)
	}
	return parsed.Result, nil
}

// Truncate cuts text to at most limit runes, marking the cut with an
// ellipsis.
func Truncate(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit-1]) + "…"
}
