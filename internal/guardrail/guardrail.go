// Package guardrail post-processes LLM narratives about verified tokens.
// Every reply goes through Finalize before reaching the user; a draft that
// fails any check is replaced wholesale with the deterministic Fallback.
package guardrail

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/model"
)

// boilerplateLimit is the length under which an insufficient-data phrase
// means the whole draft is boilerplate rather than a passing remark.
const boilerplateLimit = 120

var (
	sentenceRe = regexp.MustCompile(`[^.!?]*[.!?]+|[^.!?]+`)
	spaceRunRe = regexp.MustCompile(` {2,}`)
	// Runs of three or more blank lines collapse to one blank line;
	// shorter runs are normal paragraph spacing and stay as written.
	blankRunRe = regexp.MustCompile(`\n{4,}`)
)

// Finalize runs the draft through the full check sequence and returns the
// text safe to show. The result is never empty and the function is
// idempotent: finalizing its own output changes nothing.
func Finalize(draft string, f *model.TickerFacts, locale string) string {
	text := sanitize(draft)
	if hasCJK(text) {
		return Fallback(f, locale)
	}

	text = dropNumericRestatements(text)

	if isEmptyOrBoilerplate(text) {
		return Fallback(f, locale)
	}

	text = ensureIdentity(text, f, locale)

	if vagueBuzzwords(text) || claimsUtility(text) {
		return Fallback(f, locale)
	}
	if locale == lang.RU && foreignScriptHeavy(text, f) {
		return Fallback(f, locale)
	}
	if f.OnTON() && mentionsForeignChain(text) {
		return Fallback(f, locale)
	}

	return strings.TrimSpace(blankRunRe.ReplaceAllString(text, "\n\n"))
}

// sanitize strips control characters, collapses space runs and trims each
// line. Newlines survive; everything else below 0x20 does not.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' {
			b.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7F || r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	lines := strings.Split(spaceRunRe.ReplaceAllString(b.String(), " "), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.Join(lines, "\n")
}

func hasCJK(s string) bool {
	for _, r := range s {
		for _, rng := range cjkRanges {
			if r >= rng[0] && r <= rng[1] {
				return true
			}
		}
	}
	return false
}

// dropNumericRestatements removes sentences that repeat figures already
// shown in the facts block: anything holding both a digit and a stats term.
func dropNumericRestatements(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		var kept []string
		for _, raw := range sentenceRe.FindAllString(line, -1) {
			sentence := strings.TrimSpace(raw)
			if sentence == "" {
				continue
			}
			if hasDigit(sentence) && hasStatsTerm(sentence) {
				continue
			}
			kept = append(kept, sentence)
		}
		lines[i] = strings.Join(kept, " ")
	}
	return strings.Join(lines, "\n")
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasStatsTerm(s string) bool {
	low := strings.ToLower(s)
	for _, terms := range statsVocab {
		for _, term := range terms {
			if strings.Contains(low, term) {
				return true
			}
		}
	}
	return false
}

func isEmptyOrBoilerplate(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return true
	}
	if utf8.RuneCountInString(trimmed) > boilerplateLimit {
		return false
	}
	low := strings.ToLower(trimmed)
	for _, phrases := range insufficientData {
		for _, phrase := range phrases {
			if strings.Contains(low, phrase) {
				return true
			}
		}
	}
	return false
}

// ensureIdentity prepends a verified identity sentence when the draft
// names neither the token's name nor its symbol.
func ensureIdentity(s string, f *model.TickerFacts, locale string) string {
	name := strings.TrimSpace(f.Name)
	symbol := strings.TrimSpace(f.Symbol)
	if name == "" && symbol == "" {
		return s
	}
	low := strings.ToLower(s)
	if name != "" && strings.Contains(low, strings.ToLower(name)) {
		return s
	}
	if symbol != "" && strings.Contains(low, strings.ToLower(symbol)) {
		return s
	}
	return identityLine(f, locale) + " " + s
}

func vagueBuzzwords(s string) bool {
	low := strings.ToLower(s)
	hits := 0
	for _, words := range buzzwords {
		for _, w := range words {
			if strings.Contains(low, w) {
				hits++
				if hits >= 2 {
					return true
				}
			}
		}
	}
	return false
}

func claimsUtility(s string) bool {
	low := strings.ToLower(s)
	for _, phrases := range utilityClaims {
		for _, p := range phrases {
			if strings.Contains(low, p) {
				return true
			}
		}
	}
	return false
}

// foreignScriptHeavy reports Latin contamination of a Russian reply. The
// token's own name, symbol and the protected ecosystem terms do not count.
func foreignScriptHeavy(s string, f *model.TickerFacts) bool {
	for _, term := range []string{f.Name, f.Symbol, "TON", "jetton"} {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))
		s = re.ReplaceAllString(s, "")
	}
	var latin, cyrillic int
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			latin++
		case r >= 0x0400 && r <= 0x04FF:
			cyrillic++
		}
	}
	if cyrillic == 0 {
		return latin > 0
	}
	return float64(latin)/float64(cyrillic) > 0.5
}

func mentionsForeignChain(s string) bool {
	for _, re := range foreignChains {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
