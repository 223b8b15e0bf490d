package prompt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/model"
)

// protectedPatterns never get translated: ecosystem terms, the facts fence,
// known ticker names, URLs and template placeholders.
var protectedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bTON\b`),
	regexp.MustCompile(`(?i)\bjetton\b`),
	regexp.MustCompile(`(?i)\bREFERENCE_FACTS\b`),
	regexp.MustCompile(`(?i)\bNARRATIVE\b`),
	regexp.MustCompile(`(?i)\bDOGS\b`),
	regexp.MustCompile(`(?i)\bCATS\b`),
	regexp.MustCompile(`(?i)https?://[^\s)]+`),
	regexp.MustCompile(`\{[A-Z0-9_]+\}`),
}

const translatorInstruction = "Translate the following instruction text into the target language.\n" +
	"Rules:\n" +
	"- Preserve structure, bullets, and line breaks.\n" +
	"- Keep placeholder tokens like __KEEP_0__ exactly unchanged.\n" +
	"- Return ONLY translated instruction text, no explanations.\n"

// Chatter is the minimal LLM surface the localizer needs.
type Chatter interface {
	Chat(ctx context.Context, messages []model.ChatMessage, temperature float64) (string, error)
}

// Localizer translates English instruction templates into the user's
// language, caching results per provider, model, language and template.
// Any failure degrades to the untranslated template.
type Localizer struct {
	chat     Chatter
	provider string
	model    string

	mu    sync.Mutex
	cache map[string]string
}

func NewLocalizer(chat Chatter, provider, modelName string) *Localizer {
	return &Localizer{
		chat:     chat,
		provider: provider,
		model:    modelName,
		cache:    make(map[string]string),
	}
}

// Localize returns the template translated into targetLang. English targets
// and empty templates pass through untouched.
func (l *Localizer) Localize(ctx context.Context, template, targetLang string) string {
	target := strings.ToLower(strings.TrimSpace(targetLang))
	if template == "" || target == "" || target == "en" || target == "english" {
		return template
	}

	key := l.cacheKey(template, target)
	l.mu.Lock()
	if cached, ok := l.cache[key]; ok {
		l.mu.Unlock()
		return cached
	}
	l.mu.Unlock()

	masked, protected := protectTerms(template)
	request := fmt.Sprintf("Target language: %s\n\nTEXT TO TRANSLATE:\n%s", target, masked)

	translated, err := l.chat.Chat(ctx, []model.ChatMessage{
		{Role: model.RoleSystem, Content: translatorInstruction},
		{Role: model.RoleUser, Content: request},
	}, 0)
	if err != nil {
		logger.WithComponent("prompt").WithError(err).Warn("prompt localization failed, using original template")
		return template
	}
	translated = strings.TrimSpace(translated)
	if translated == "" {
		return template
	}

	restored := restoreTerms(translated, protected)
	l.mu.Lock()
	l.cache[key] = restored
	l.mu.Unlock()
	return restored
}

func (l *Localizer) cacheKey(template, target string) string {
	sum := sha256.Sum256([]byte(l.provider + "|" + l.model + "|" + target + "|" + template))
	return hex.EncodeToString(sum[:])
}

type protectedTerm struct {
	token    string
	original string
}

// protectTerms masks every protected occurrence with a __KEEP_n__ token so
// the translator cannot touch it.
func protectTerms(text string) (string, []protectedTerm) {
	var terms []protectedTerm
	idx := 0
	for {
		replaced := false
		for _, re := range protectedPatterns {
			loc := re.FindStringIndex(text)
			if loc == nil {
				continue
			}
			token := fmt.Sprintf("__KEEP_%d__", idx)
			idx++
			terms = append(terms, protectedTerm{token: token, original: text[loc[0]:loc[1]]})
			text = text[:loc[0]] + token + text[loc[1]:]
			replaced = true
		}
		if !replaced {
			return text, terms
		}
	}
}

func restoreTerms(text string, terms []protectedTerm) string {
	for _, t := range terms {
		text = strings.ReplaceAll(text, t.token, t.original)
	}
	return text
}
