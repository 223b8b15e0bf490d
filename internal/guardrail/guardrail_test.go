package guardrail

import (
	"strings"
	"testing"

	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/model"
)

func jettonFacts() *model.TickerFacts {
	return &model.TickerFacts{
		Symbol: "DOGS",
		Name:   "Dogs",
		Type:   model.TypeJetton,
	}
}

func TestFinalize_FallbackIsFixedPoint(t *testing.T) {
	f := jettonFacts()
	for _, locale := range []string{lang.EN, lang.RU} {
		fb := Fallback(f, locale)
		if fb == "" {
			t.Fatalf("fallback must not be empty (%s)", locale)
		}
		if got := Finalize(fb, f, locale); got != fb {
			t.Errorf("fallback must survive finalization unchanged (%s):\ngot:  %q\nwant: %q", locale, got, fb)
		}
	}
}

func TestFinalize_CJKTriggersFallback(t *testing.T) {
	f := jettonFacts()
	got := Finalize("Dogs (DOGS) is a jetton. 日本語のテキスト.", f, lang.EN)
	if got != Fallback(f, lang.EN) {
		t.Errorf("CJK content must be replaced, got %q", got)
	}
}

func TestFinalize_DropsNumericRestatements(t *testing.T) {
	f := jettonFacts()
	draft := "The token has a total supply of 1,000,000. It grew out of a Telegram sticker community."
	got := Finalize(draft, f, lang.EN)
	if strings.Contains(got, "1,000,000") {
		t.Errorf("numeric restatement must be dropped:\n%s", got)
	}
	if !strings.Contains(got, "sticker community") {
		t.Errorf("clean sentences must survive:\n%s", got)
	}
}

func TestFinalize_EmptyAndBoilerplate(t *testing.T) {
	f := jettonFacts()
	for _, draft := range []string{
		"",
		"   \n\n  ",
		"I don't have enough data.",
		"Недостаточно данных.",
	} {
		got := Finalize(draft, f, lang.EN)
		if got == "" {
			t.Fatalf("finalize must never return empty for %q", draft)
		}
		if got != Fallback(f, lang.EN) {
			t.Errorf("draft %q should become the fallback, got %q", draft, got)
		}
	}
}

func TestFinalize_PrependsIdentityWhenMissing(t *testing.T) {
	f := jettonFacts()
	got := Finalize("It grew out of a Telegram sticker community.", f, lang.EN)
	if !strings.HasPrefix(got, "Dogs (DOGS) is a jetton") {
		t.Errorf("expected identity sentence up front:\n%s", got)
	}
	if !strings.Contains(got, "sticker community") {
		t.Errorf("original draft must be kept:\n%s", got)
	}
}

func TestFinalize_BuzzwordThreshold(t *testing.T) {
	f := jettonFacts()

	one := Finalize("DOGS is a revolutionary meme project.", f, lang.EN)
	if !strings.Contains(one, "revolutionary") {
		t.Errorf("a single buzzword should pass:\n%s", one)
	}

	two := Finalize("DOGS is a revolutionary, cutting-edge project.", f, lang.EN)
	if two != Fallback(f, lang.EN) {
		t.Errorf("two buzzwords must trigger the fallback, got %q", two)
	}
}

func TestFinalize_UtilityClaimTriggersFallback(t *testing.T) {
	f := jettonFacts()
	got := Finalize("DOGS can be used to pay for coffee worldwide.", f, lang.EN)
	if got != Fallback(f, lang.EN) {
		t.Errorf("unsupported utility claims must be replaced, got %q", got)
	}
}

func TestFinalize_RussianScriptContamination(t *testing.T) {
	f := jettonFacts()

	bad := Finalize("DOGS is a community meme project with a long history.", f, lang.RU)
	if bad != Fallback(f, lang.RU) {
		t.Errorf("a Latin-only reply in the Russian path must be replaced, got %q", bad)
	}

	okDraft := "DOGS — известный джеттон в сети TON, вокруг него активное сообщество."
	if got := Finalize(okDraft, f, lang.RU); got != okDraft {
		t.Errorf("name, symbol and TON do not count as contamination:\ngot:  %q\nwant: %q", got, okDraft)
	}
}

func TestFinalize_ForeignChainMentions(t *testing.T) {
	f := jettonFacts() // jetton, so TON-pinned

	got := Finalize("Dogs (DOGS) is bigger than Ethereum.", f, lang.EN)
	if got != Fallback(f, lang.EN) {
		t.Errorf("naming another chain for a TON token must be replaced, got %q", got)
	}

	// Substring of a longer word is not a mention.
	okDraft := "DOGS — электронный джеттон в сети TON."
	if finalized := Finalize(okDraft, f, lang.RU); finalized != okDraft {
		t.Errorf("chain match must respect word boundaries, got %q", finalized)
	}

	// A token not pinned to TON may reference other chains.
	loose := &model.TickerFacts{Symbol: "WETH", Name: "Wrapped Ether", Type: model.TypeToken}
	ethDraft := "Wrapped Ether (WETH) wraps the native coin of Ethereum."
	if finalized := Finalize(ethDraft, loose, lang.EN); finalized != ethDraft {
		t.Errorf("chain check applies only to TON-pinned tokens, got %q", finalized)
	}
}

func TestFinalize_CollapsesBlankLines(t *testing.T) {
	f := jettonFacts()
	got := Finalize("Dogs is a meme jetton.\n\n\n\nIt is popular.", f, lang.EN)
	if strings.Contains(got, "\n\n\n") {
		t.Errorf("blank runs must collapse to one empty line:\n%q", got)
	}
	if !strings.Contains(got, "\n\n") {
		t.Errorf("paragraph break should survive:\n%q", got)
	}
}

func TestFinalize_KeepsShortBlankRuns(t *testing.T) {
	f := jettonFacts()

	// Up to two blank lines is deliberate spacing and passes through.
	draft := "Dogs is a meme jetton.\n\n\nIt is popular."
	got := Finalize(draft, f, lang.EN)
	if got != draft {
		t.Errorf("two blank lines must survive:\ngot:  %q\nwant: %q", got, draft)
	}

	// Three or more blank lines collapse to a single paragraph break.
	got = Finalize("Dogs is a meme jetton.\n\n\n\n\n\nIt is popular.", f, lang.EN)
	if want := "Dogs is a meme jetton.\n\nIt is popular."; got != want {
		t.Errorf("long blank run must collapse:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestFinalize_Idempotent(t *testing.T) {
	f := jettonFacts()
	drafts := []string{
		"",
		"Dogs (DOGS) is a jetton born from a sticker meme.",
		"The supply is 1,000,000. It grew out of a Telegram community.",
		"It has something going on.\n\n\n\nHard to say what.",
		"DOGS is a revolutionary, cutting-edge, next-generation project.",
		"日本語",
	}
	for _, locale := range []string{lang.EN, lang.RU} {
		for _, draft := range drafts {
			once := Finalize(draft, f, locale)
			twice := Finalize(once, f, locale)
			if once != twice {
				t.Errorf("not idempotent (%s) for %q:\nonce:  %q\ntwice: %q", locale, draft, once, twice)
			}
			if once == "" {
				t.Errorf("finalize returned empty (%s) for %q", locale, draft)
			}
		}
	}
}
