// Package ticker extracts and ranks ticker-symbol candidates from free text.
// Everything here is pure and deterministic: same text in, same ranked list
// out, no network, no shared state.
package ticker

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"TokenSentinel/internal/model"
)

// MaxCandidates caps the ranked list so one message cannot fan out into a
// long chain of authority lookups.
const MaxCandidates = 8

var (
	tokenRe     = regexp.MustCompile(`\b[a-zA-Z0-9]{2,10}\b`)
	upperLikeRe = regexp.MustCompile(`\b[A-Z0-9]{3,10}\b`)
)

// Extract returns up to MaxCandidates ticker candidates ranked by score,
// highest first, ties broken alphabetically by symbol. Duplicate symbols
// keep their first occurrence. Empty or token-free input yields nil.
func Extract(text string) []model.TickerCandidate {
	if text == "" {
		return nil
	}
	raw := tokenRe.FindAllString(text, -1)
	if len(raw) == 0 {
		return nil
	}

	lower := strings.ToLower(text)
	hasContext := hasContextWords(lower)
	strong := StrongContext(text)
	standalone := strings.TrimSpace(text)

	seen := make(map[string]bool)
	var out []model.TickerCandidate

	for _, tok := range raw {
		symbol := strings.ToUpper(tok)
		if seen[symbol] {
			continue
		}
		if isDigits(symbol) {
			continue
		}
		if stopWords[symbol] {
			continue
		}

		dollar := strings.Contains(text, "$"+tok) || strings.Contains(text, "$ "+tok)

		// Lowercase tokens are usually just words. Keep them only on an
		// explicit signal: $ prefix, strong crypto context, or the whole
		// message being exactly this token.
		if isLowerToken(tok) && !dollar && !strong && standalone != tok {
			continue
		}
		if len(symbol) < 3 && !(isUpperToken(tok) || strong) {
			continue
		}
		seen[symbol] = true

		score := 0
		if dollar {
			score += 10
		}
		if isUpperToken(tok) {
			score += 5
		} else if hasUpper(tok) && !isCapitalizedWord(tok) {
			score += 3
		}
		if hasContext {
			score += 2
		}
		if wrappedInPunct(text, tok) {
			score += 1
		}

		out = append(out, model.TickerCandidate{RawToken: tok, Symbol: symbol, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Symbol < out[j].Symbol
	})
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

// StrongContext reports whether the message carries an explicit token
// signal: a $ sign, an uppercase ticker-like run, or crypto vocabulary.
// This separates "DOGS token price" from "I love dogs".
func StrongContext(text string) bool {
	if text == "" {
		return false
	}
	if strings.Contains(text, "$") {
		return true
	}
	if upperLikeRe.MatchString(text) {
		return true
	}
	return hasContextWords(strings.ToLower(text))
}

func hasContextWords(lower string) bool {
	for _, w := range contextWordsEN {
		if strings.Contains(lower, w) {
			return true
		}
	}
	for _, w := range contextWordsRU {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isLowerToken reports a token with letters and no uppercase among them.
func isLowerToken(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

// isUpperToken reports a token with letters and all of them uppercase.
func isUpperToken(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}

func hasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// isCapitalizedWord matches ordinary sentence-initial capitalization
// (single leading capital, rest lowercase) so it earns no case bonus.
func isCapitalizedWord(s string) bool {
	if len(s) < 2 {
		return false
	}
	r := []rune(s)
	if !unicode.IsUpper(r[0]) {
		return false
	}
	for _, c := range r[1:] {
		if !unicode.IsLower(c) {
			return false
		}
	}
	return true
}

var (
	wrapOpen  = []string{"(", "[", "{", `"`, "'"}
	wrapClose = []string{")", "]", "}", `"`, "'", "?", "!", ".", ",", ";"}
)

func wrappedInPunct(text, tok string) bool {
	for _, p := range wrapOpen {
		for _, q := range wrapClose {
			if strings.Contains(text, p+tok+q) {
				return true
			}
		}
	}
	return false
}
