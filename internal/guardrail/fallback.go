package guardrail

import (
	"fmt"
	"strings"

	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/model"
)

// Fallback builds the deterministic narrative used whenever a generated
// draft fails a check. It is written from verified fields only and must
// itself pass every check in Finalize, so Finalize(Fallback(...), ...)
// returns it unchanged.
func Fallback(f *model.TickerFacts, locale string) string {
	if locale == lang.RU {
		return identityLine(f, locale) +
			" Надёжная часть ответа — проверенные цифры выше; помимо них публичной информации о проекте мало, поэтому к громким заявлениям из других источников стоит относиться осторожно."
	}
	return identityLine(f, locale) +
		" The verified figures above are the reliable part of this answer; beyond them, public information about the project is scarce, so treat any bold claims you see elsewhere with caution."
}

// identityLine states what the token is, using only verified fields.
func identityLine(f *model.TickerFacts, locale string) string {
	name := strings.TrimSpace(f.Name)
	symbol := strings.TrimSpace(f.Symbol)
	identity := name
	if identity == "" {
		identity = symbol
	}
	if name != "" && symbol != "" {
		identity = fmt.Sprintf("%s (%s)", name, symbol)
	}

	if locale == lang.RU {
		kind := "токен"
		switch f.Type {
		case model.TypeJetton:
			kind = "джеттон"
		case model.TypeNative:
			kind = "нативная монета"
		}
		where := ""
		if f.OnTON() {
			where = " в сети TON"
		}
		return fmt.Sprintf("%s — это %s%s.", identity, kind, where)
	}

	kind := "token"
	switch f.Type {
	case model.TypeJetton:
		kind = "jetton"
	case model.TypeNative:
		kind = "native coin"
	}
	where := ""
	if f.OnTON() {
		where = " on the TON blockchain"
	}
	return fmt.Sprintf("%s is a %s%s.", identity, kind, where)
}
