package bot

import (
	"context"
	"strings"
	"sync"
	"time"

	"TokenSentinel/internal/history"
	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/prompt"
)

const pollTimeoutSec = 30

// langCallbackPrefix marks the EN/RU regeneration buttons under replies.
const langCallbackPrefix = "lang:"

// Answerer produces replies: one per user message, plus regeneration of
// the last answer when the user picks a language button.
type Answerer interface {
	Answer(ctx context.Context, userID int64, text string) string
	Regenerate(ctx context.Context, userID int64, locale string) string
}

// languageKeyboard is attached to every reply so the user can re-ask the
// same thing in the other language.
func languageKeyboard() *InlineKeyboard {
	return &InlineKeyboard{InlineKeyboard: [][]InlineButton{{
		{Text: "EN", CallbackData: langCallbackPrefix + lang.EN},
		{Text: "RU", CallbackData: langCallbackPrefix + lang.RU},
	}}}
}

// Bot runs the long-polling loop and answers each text message through
// the pipeline, editing a placeholder into the final reply.
type Bot struct {
	api       *API
	answerer  Answerer
	store     history.Store
	signature string
	log       logger.Entry

	wg sync.WaitGroup
}

func New(api *API, answerer Answerer, store history.Store, signature string) *Bot {
	return &Bot{
		api:       api,
		answerer:  answerer,
		store:     store,
		signature: signature,
		log:       logger.WithComponent("bot"),
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight replies.
func (b *Bot) Run(ctx context.Context) {
	if err := b.api.DeleteWebhook(ctx); err != nil {
		b.log.WithError(err).Warn("failed to delete webhook before polling")
	}

	offset := 0
	for {
		select {
		case <-ctx.Done():
			b.log.Info("polling stopped")
			b.wg.Wait()
			return
		default:
		}

		updates, err := b.api.GetUpdates(ctx, offset, pollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				b.wg.Wait()
				return
			}
			b.log.WithError(err).Warn("polling failed")
			time.Sleep(5 * time.Second)
			continue
		}

		for _, upd := range updates {
			offset = upd.UpdateID + 1
			update := upd
			switch {
			case upd.CallbackQuery != nil:
				b.wg.Add(1)
				go func() {
					defer b.wg.Done()
					b.handleCallback(ctx, update)
				}()
			case upd.Message != nil && strings.TrimSpace(upd.Message.Text) != "":
				b.wg.Add(1)
				go func() {
					defer b.wg.Done()
					b.handleMessage(ctx, update)
				}()
			}
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, upd Update) {
	msg := upd.Message
	text := strings.TrimSpace(msg.Text)
	chatID := msg.Chat.ID

	userID := chatID
	if msg.From != nil {
		userID = msg.From.ID
		if err := b.store.UpsertUser(history.User{
			TelegramID:   msg.From.ID,
			Username:     msg.From.Username,
			FirstName:    msg.From.FirstName,
			LastName:     msg.From.LastName,
			LanguageCode: msg.From.LanguageCode,
		}); err != nil {
			b.log.WithError(err).Warn("failed to upsert user")
		}
	}

	locale := lang.Detect(text, lang.EN)

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, chatID, locale, text)
		return
	}

	// Placeholder first so the user sees progress; the reply replaces it.
	placeholderID, err := b.api.SendMessage(ctx, chatID, prompt.Thinking(locale))
	if err != nil {
		b.log.WithError(err).Error("failed to send placeholder")
		return
	}

	reply := b.answerer.Answer(ctx, userID, text)
	reply = b.withSignature(reply)

	if err := b.api.EditMessageMarkup(ctx, chatID, placeholderID, reply, languageKeyboard()); err != nil {
		b.log.WithError(err).Warn("edit failed, sending a fresh message")
		if _, err := b.api.SendMessageMarkup(ctx, chatID, reply, languageKeyboard()); err != nil {
			b.log.WithError(err).Error("failed to send reply")
		}
	}
}

// handleCallback regenerates the pressed message's answer in the chosen
// language, reusing the message as its own placeholder.
func (b *Bot) handleCallback(ctx context.Context, upd Update) {
	cq := upd.CallbackQuery

	locale, ok := parseLangCallback(cq.Data)
	if !ok || cq.Message == nil {
		if err := b.api.AnswerCallback(ctx, cq.ID, ""); err != nil {
			b.log.WithError(err).Warn("failed to answer callback")
		}
		return
	}

	chatID := cq.Message.Chat.ID
	messageID := cq.Message.MessageID
	userID := chatID
	if cq.From != nil {
		userID = cq.From.ID
	}

	if err := b.api.AnswerCallback(ctx, cq.ID, prompt.Thinking(locale)); err != nil {
		b.log.WithError(err).Warn("failed to answer callback")
	}
	if err := b.api.EditMessageMarkup(ctx, chatID, messageID, prompt.Thinking(locale), languageKeyboard()); err != nil {
		b.log.WithError(err).Warn("failed to show regeneration placeholder")
	}

	reply := b.answerer.Regenerate(ctx, userID, locale)
	reply = b.withSignature(reply)

	if err := b.api.EditMessageMarkup(ctx, chatID, messageID, reply, languageKeyboard()); err != nil {
		b.log.WithError(err).Warn("edit failed, sending a fresh message")
		if _, err := b.api.SendMessageMarkup(ctx, chatID, reply, languageKeyboard()); err != nil {
			b.log.WithError(err).Error("failed to send regenerated reply")
		}
	}
}

// parseLangCallback extracts the locale from "lang:en" / "lang:ru" data.
func parseLangCallback(data string) (string, bool) {
	locale := strings.TrimPrefix(data, langCallbackPrefix)
	if locale == data || (locale != lang.EN && locale != lang.RU) {
		return "", false
	}
	return locale, true
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, locale, text string) {
	cmd := strings.Fields(text)[0]
	switch cmd {
	case "/start":
		if _, err := b.api.SendMessage(ctx, chatID, welcome(locale)); err != nil {
			b.log.WithError(err).Error("failed to send welcome")
		}
	default:
		// Unknown commands are ignored, matching how chats treat noise.
	}
}

// withSignature appends the configured signature, shrinking the reply so
// the total stays within the Telegram limit.
func (b *Bot) withSignature(reply string) string {
	if b.signature == "" {
		return reply
	}
	suffix := "\n\n***\n\n" + b.signature
	return Truncate(reply, maxMessageLength-len([]rune(suffix))) + suffix
}

func welcome(locale string) string {
	if locale == lang.RU {
		return "Привет! Спроси меня про любой токен TON — пришли тикер (например $DOGS), и я отвечу проверенными данными."
	}
	return "Hi! Ask me about any TON token: send a ticker like $DOGS and I'll reply with verified data."
}
