// Package facts renders verified token data into the deterministic block
// that precedes the generated narrative. Pure functions only: nothing here
// may fail, invent fields, or consult the network.
package facts

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"

	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/model"
)

const descriptionLimit = 180

// compactScales go up to 10^18 because jetton supplies really do get there.
var compactScales = []struct {
	pow    int64 // power of ten
	suffix string
}{
	{18, "Qi"},
	{15, "Q"},
	{12, "T"},
	{9, "B"},
	{6, "M"},
	{3, "K"},
}

type labels struct {
	name, symbol, typ      string
	supply, holders        string
	lastActivity, decimals string
	contract, verified     string
	description, source    string
	yes, no, unknown       string
	typeNames              map[string]string
}

var labelsEN = labels{
	name: "Name", symbol: "Symbol", typ: "Type",
	supply: "Total supply (tokens)", holders: "Holders",
	lastActivity: "Last activity", decimals: "Decimals",
	contract: "Contract", verified: "Verified",
	description: "Description", source: "Source",
	yes: "yes", no: "no", unknown: "unknown",
	typeNames: map[string]string{
		model.TypeToken:  "token",
		model.TypeJetton: "jetton",
		model.TypeNative: "native coin",
	},
}

var labelsRU = labels{
	name: "Название", symbol: "Символ", typ: "Тип",
	supply: "Общий выпуск (токенов)", holders: "Держатели",
	lastActivity: "Последняя активность", decimals: "Десятичные знаки",
	contract: "Контракт", verified: "Проверен",
	description: "Описание", source: "Источник",
	yes: "да", no: "нет", unknown: "неизвестно",
	typeNames: map[string]string{
		model.TypeToken:  "токен",
		model.TypeJetton: "джеттон",
		model.TypeNative: "нативная монета",
	},
}

func labelsFor(locale string) labels {
	if locale == lang.RU {
		return labelsRU
	}
	return labelsEN
}

// Render produces the locale-aware facts block. Missing numeric fields get
// an explicit unknown marker, never a silent omission and never a zero.
// Optional fields appear only when the authority reported them.
func Render(f *model.TickerFacts, locale string) string {
	l := labelsFor(locale)
	var b strings.Builder

	writeLine(&b, l.name, orUnknown(f.Name, l))
	writeLine(&b, l.symbol, orUnknown(f.Symbol, l))
	writeLine(&b, l.typ, typeName(f.Type, l))
	b.WriteString("\n")

	writeLine(&b, l.supply, supplyValue(f.TotalSupply, locale, l))
	writeLine(&b, l.holders, intValue(f.Holders, locale, l))
	writeLine(&b, l.lastActivity, orUnknown(f.LastActivity, l))

	if f.Decimals != nil {
		writeLine(&b, l.decimals, fmt.Sprintf("%d", *f.Decimals))
	}
	if f.ContractID != "" {
		writeLine(&b, l.contract, f.ContractID)
	}
	if f.Verified != nil {
		v := l.no
		if *f.Verified {
			v = l.yes
		}
		writeLine(&b, l.verified, v)
	}
	if f.Description != "" {
		writeLine(&b, l.description, truncate(f.Description, descriptionLimit))
	}
	if f.SourceName != "" {
		writeLine(&b, l.source, f.SourceName)
	}

	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, label, value string) {
	b.WriteString(label)
	b.WriteString(": ")
	b.WriteString(value)
	b.WriteString("\n")
}

func orUnknown(s string, l labels) string {
	if strings.TrimSpace(s) == "" {
		return l.unknown
	}
	return s
}

func typeName(t string, l labels) string {
	if name, ok := l.typeNames[t]; ok {
		return name
	}
	return orUnknown(t, l)
}

// supplyValue prefers the full grouped value; the compact form rides along
// in parentheses once the magnitude warrants it.
func supplyValue(v *big.Int, locale string, l labels) string {
	if v == nil {
		return l.unknown
	}
	grouped := Group(v, locale)
	// Append the compact form only from a million up; below that the
	// grouped value alone reads fine.
	if v.Cmp(pow10(6)) >= 0 {
		if compact := Compact(v); compact != "" {
			return fmt.Sprintf("%s (≈%s)", grouped, compact)
		}
	}
	return grouped
}

func intValue(v *int64, locale string, l labels) string {
	if v == nil {
		return l.unknown
	}
	return Group(big.NewInt(*v), locale)
}

// Group renders an integer with locale-appropriate thousands separators:
// commas for English, thin spaces for Russian.
func Group(v *big.Int, locale string) string {
	grouped := humanize.BigComma(new(big.Int).Set(v))
	if locale == lang.RU {
		return strings.ReplaceAll(grouped, ",", " ")
	}
	return grouped
}

// Compact renders a supply-scale magnitude like 545.2Qi.
// Values below 10^3 return "".
func Compact(v *big.Int) string {
	for _, s := range compactScales {
		threshold := pow10(s.pow)
		if v.Cmp(threshold) >= 0 {
			whole, rem := new(big.Int).QuoRem(v, threshold, new(big.Int))
			tenth := new(big.Int).Div(rem.Mul(rem, big.NewInt(10)), threshold)
			return fmt.Sprintf("%s.%s%s", whole, tenth, s.suffix)
		}
	}
	return ""
}

func pow10(n int64) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(n), nil)
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + "…"
}
