// Package pipeline turns an incoming chat message into a grounded reply:
// detect language, verify ticker candidates against the authority, render
// verified facts, generate a narrative and pass it through the guardrail.
package pipeline

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"TokenSentinel/internal/authority"
	"TokenSentinel/internal/facts"
	"TokenSentinel/internal/guardrail"
	"TokenSentinel/internal/history"
	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/model"
	"TokenSentinel/internal/prompt"
	"TokenSentinel/internal/ticker"
)

const (
	narrativeTemperature = 0.7
	historyLimit         = 10
)

// Verifier resolves ticker candidates in free text to verified facts.
type Verifier interface {
	Verify(ctx context.Context, text string) (string, *model.TickerFacts, authority.Outcome)
}

// Chatter is the LLM surface the pipeline needs.
type Chatter interface {
	Chat(ctx context.Context, messages []model.ChatMessage, temperature float64) (string, error)
}

// Localizer translates instruction templates for non-English users.
type Localizer interface {
	Localize(ctx context.Context, template, targetLang string) string
}

// Stats counts answered requests by path. All counters are cumulative.
type Stats struct {
	Requests      atomic.Int64
	TickerAnswers atomic.Int64
	NotFound      atomic.Int64
	Outages       atomic.Int64
	General       atomic.Int64
	Regenerations atomic.Int64
	LLMFailures   atomic.Int64
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests":       s.Requests.Load(),
		"ticker_answers": s.TickerAnswers.Load(),
		"not_found":      s.NotFound.Load(),
		"outages":        s.Outages.Load(),
		"general":        s.General.Load(),
		"regenerations":  s.Regenerations.Load(),
		"llm_failures":   s.LLMFailures.Load(),
	}
}

type Pipeline struct {
	verifier  Verifier
	chat      Chatter
	localizer Localizer
	store     history.Store
	stats     *Stats
}

func New(verifier Verifier, chat Chatter, localizer Localizer, store history.Store) *Pipeline {
	return &Pipeline{
		verifier:  verifier,
		chat:      chat,
		localizer: localizer,
		store:     store,
		stats:     &Stats{},
	}
}

func (p *Pipeline) Stats() *Stats { return p.stats }

// Answer produces the reply for one user message. It always returns
// something to show: failures surface as honest fixed messages, never as
// an empty reply.
func (p *Pipeline) Answer(ctx context.Context, userID int64, text string) string {
	p.stats.Requests.Add(1)

	reqID := uuid.NewString()[:8]
	locale := lang.Detect(text, lang.EN)
	log := logger.WithComponent("pipeline").
		WithField("request_id", reqID).
		WithField("locale", locale)

	if err := p.store.SaveMessage(userID, model.RoleUser, text); err != nil {
		log.WithError(err).Warn("failed to save user message")
	}

	reply := p.answer(ctx, log, userID, locale, text)

	if err := p.store.SaveMessage(userID, model.RoleAssistant, reply); err != nil {
		log.WithError(err).Warn("failed to save assistant message")
	}
	return reply
}

func (p *Pipeline) answer(ctx context.Context, log logger.Entry, userID int64, locale, text string) string {
	symbol, tf, outcome := p.verifier.Verify(ctx, text)

	switch outcome {
	case authority.OutcomeTimeout:
		p.stats.Outages.Add(1)
		log.Warn("verification timed out")
		return timeoutMessage(locale)

	case authority.OutcomeUnavailable:
		p.stats.Outages.Add(1)
		log.Warn("verification service unavailable")
		return unavailableMessage(locale)

	case authority.OutcomeNotFound:
		// Only a message that clearly asked about a ticker earns the
		// explicit not-found reply; everything else is general chat.
		if len(ticker.Extract(text)) > 0 && ticker.StrongContext(text) {
			p.stats.NotFound.Add(1)
			log.Info("ticker candidates rejected by authority")
			return notFoundMessage(locale)
		}
		return p.generalChat(ctx, log, userID, locale, text)
	}

	log.WithField("symbol", symbol).Info("ticker verified")
	return p.tickerAnswer(ctx, log, locale, text, tf)
}

// tickerAnswer renders the facts block and asks the model for a narrative
// grounded on it. The guardrail has the final word on the narrative; the
// facts block itself never depends on the model.
func (p *Pipeline) tickerAnswer(ctx context.Context, log logger.Entry, locale, text string, tf *model.TickerFacts) string {
	p.stats.TickerAnswers.Add(1)

	factsBlock := facts.Render(tf, locale)
	instruction := p.localizer.Localize(ctx, prompt.Narrative(locale), locale)

	messages := []model.ChatMessage{
		{Role: model.RoleSystem, Content: instruction},
		{Role: model.RoleSystem, Content: prompt.WrapFacts(factsBlock)},
		{Role: model.RoleUser, Content: text},
	}

	draft, err := p.chat.Chat(ctx, messages, narrativeTemperature)
	if err != nil {
		p.stats.LLMFailures.Add(1)
		log.WithError(err).Warn("narrative generation failed")
		return factsBlock + "\n\n" + generationFailedNote(locale)
	}

	narrative := guardrail.Finalize(draft, tf, locale)
	return factsBlock + "\n\n" + narrative
}

// Regenerate re-answers the user's last message in the requested language.
// The exchange is rebuilt from scratch: one strict system prompt plus the
// stored user text, no history and no fresh verification.
func (p *Pipeline) Regenerate(ctx context.Context, userID int64, locale string) string {
	p.stats.Regenerations.Add(1)

	log := logger.WithComponent("pipeline").
		WithField("request_id", uuid.NewString()[:8]).
		WithField("locale", locale)

	source, err := p.store.LastByRole(userID, model.RoleUser)
	if err != nil {
		log.WithError(err).Warn("failed to load last user message")
	}
	if strings.TrimSpace(source) == "" {
		return nothingToRegenerate(locale)
	}

	messages := []model.ChatMessage{
		{Role: model.RoleSystem, Content: prompt.RegenSystem(locale)},
		{Role: model.RoleUser, Content: source},
	}
	reply, err := p.chat.Chat(ctx, messages, narrativeTemperature)
	if err != nil || strings.TrimSpace(reply) == "" {
		p.stats.LLMFailures.Add(1)
		if err != nil {
			log.WithError(err).Warn("regeneration failed")
		}
		return generationFailedNote(locale)
	}

	reply = strings.TrimSpace(reply)
	if err := p.store.SaveMessage(userID, model.RoleAssistant, reply); err != nil {
		log.WithError(err).Warn("failed to save assistant message")
	}
	return reply
}

// generalChat answers without verified facts, feeding recent history back
// to the model.
func (p *Pipeline) generalChat(ctx context.Context, log logger.Entry, userID int64, locale, text string) string {
	p.stats.General.Add(1)

	hist, err := p.store.History(userID, historyLimit)
	if err != nil {
		log.WithError(err).Warn("failed to load history")
	}

	messages := make([]model.ChatMessage, 0, len(hist)+2)
	messages = append(messages, model.ChatMessage{Role: model.RoleSystem, Content: prompt.DefaultSystem(locale)})
	messages = append(messages, hist...)
	// History already ends with the current user message if saving
	// succeeded; append it explicitly when it does not.
	if len(hist) == 0 || hist[len(hist)-1].Content != text {
		messages = append(messages, model.ChatMessage{Role: model.RoleUser, Content: text})
	}

	reply, err := p.chat.Chat(ctx, messages, narrativeTemperature)
	if err != nil || strings.TrimSpace(reply) == "" {
		p.stats.LLMFailures.Add(1)
		if err != nil {
			log.WithError(err).Warn("general chat generation failed")
		}
		return generationFailedNote(locale)
	}
	return strings.TrimSpace(reply)
}
