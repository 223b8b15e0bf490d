package guardrail

import "regexp"

// Rule tables are data, not control flow, so each check in guardrail.go
// stays auditable and testable on its own. All matching is case-insensitive
// substring unless a regexp says otherwise.

// statsVocab marks sentences that restate numbers already shown in the
// facts block. A sentence is dropped only when it carries both a digit and
// one of these terms.
var statsVocab = map[string][]string{
	"en": {
		"supply", "holder", "last activity", "transaction",
		"decimal", "circulating", "issued",
	},
	"ru": {
		"саплай", "выпуск", "эмисси", "держател", "активност",
		"транзакц", "обращени",
	},
}

// insufficientData phrases are model boilerplate meaning "I have nothing";
// compared against the whole cleaned narrative.
var insufficientData = map[string][]string{
	"en": {
		"i don't have enough data",
		"i do not have enough data",
		"not enough data",
		"insufficient data",
		"no data available",
	},
	"ru": {
		"недостаточно данных",
		"у меня недостаточно данных",
		"данных недостаточно",
		"нет данных",
	},
}

// buzzwords are vague ecosystem filler; two or more distinct hits mean the
// narrative says nothing and gets replaced.
var buzzwords = map[string][]string{
	"en": {
		"revolutionary", "game-changer", "game changer", "cutting-edge",
		"next-generation", "paradigm", "to the moon", "massive potential",
		"huge potential", "vibrant ecosystem", "thriving ecosystem",
		"endless possibilities",
	},
	"ru": {
		"революционн", "инновационн", "огромный потенциал",
		"безграничные возможности", "меняет правила игры",
	},
}

// utilityClaims are unsupported assertions of transactional utility. The
// authority never reports payment usage, so a single hit is disqualifying.
var utilityClaims = map[string][]string{
	"en": {
		"can be used to pay", "can be used for payments",
		"used for transactions", "medium of exchange",
		"pay for goods", "payment method", "accepted as payment",
	},
	"ru": {
		"можно оплачивать", "средство платежа", "для оплаты товаров",
		"платёжное средство", "принимается к оплате",
	},
}

// foreignChains may not be named when the verified source pins the token to
// the TON ecosystem. Matched as standalone words (ASCII \b does not work
// for Cyrillic, hence the explicit boundaries).
var foreignChains = compileChainPatterns([]string{
	"ethereum", "solana", "bitcoin", "polygon", "avalanche", "cardano",
	"tron", "dogecoin", "bnb chain", "binance smart chain", "arbitrum",
	"эфириум", "солана", "биткоин", "биткойн", "кардано", "трон",
})

func compileChainPatterns(names []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(names))
	for _, n := range names {
		out = append(out, regexp.MustCompile(`(?i)(^|[^\p{L}\p{N}])`+regexp.QuoteMeta(n)+`([^\p{L}\p{N}]|$)`))
	}
	return out
}

// cjkRanges catch language leakage: the bot answers in Latin/Cyrillic only,
// so any CJK character means the model drifted.
var cjkRanges = [][2]rune{
	{0x3040, 0x30FF}, // hiragana + katakana
	{0x3400, 0x4DBF}, // CJK extension A
	{0x4E00, 0x9FFF}, // CJK unified
	{0xAC00, 0xD7AF}, // hangul
}
