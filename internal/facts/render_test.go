package facts

import (
	"math/big"
	"strings"
	"testing"

	"TokenSentinel/internal/lang"
	"TokenSentinel/internal/model"
)

func i64(v int64) *int64 { return &v }

func sampleFacts() *model.TickerFacts {
	return &model.TickerFacts{
		Symbol:      "MCOM",
		Name:        "Mcom",
		Type:        model.TypeJetton,
		TotalSupply: big.NewInt(1000000),
		Holders:     i64(250),
	}
}

func TestRender_GroupedNumbers(t *testing.T) {
	got := Render(sampleFacts(), lang.EN)
	if !strings.Contains(got, "1,000,000") {
		t.Errorf("expected grouped supply, got:\n%s", got)
	}
	if !strings.Contains(got, "Holders: 250") {
		t.Errorf("expected holders line, got:\n%s", got)
	}
	if !strings.Contains(got, "Type: jetton") {
		t.Errorf("expected type line, got:\n%s", got)
	}
}

func TestRender_RussianGrouping(t *testing.T) {
	got := Render(sampleFacts(), lang.RU)
	if !strings.Contains(got, "1 000 000") {
		t.Errorf("expected space-grouped supply in RU, got:\n%s", got)
	}
	if !strings.Contains(got, "Тип: джеттон") {
		t.Errorf("expected localized type, got:\n%s", got)
	}
}

func TestRender_MissingNumericIsExplicit(t *testing.T) {
	f := sampleFacts()
	f.Holders = nil
	got := Render(f, lang.EN)
	if !strings.Contains(got, "Holders: unknown") {
		t.Errorf("missing holders must render as unknown, got:\n%s", got)
	}
	if strings.Contains(got, "Holders: 0") {
		t.Error("missing holders must never render as zero")
	}

	ru := Render(f, lang.RU)
	if !strings.Contains(ru, "Держатели: неизвестно") {
		t.Errorf("missing holders must render as unknown in RU, got:\n%s", ru)
	}
}

func TestRender_OptionalFieldsOnlyWhenPresent(t *testing.T) {
	got := Render(sampleFacts(), lang.EN)
	for _, label := range []string{"Decimals:", "Contract:", "Verified:", "Description:", "Source:"} {
		if strings.Contains(got, label) {
			t.Errorf("unexpected optional line %q:\n%s", label, got)
		}
	}

	f := sampleFacts()
	f.Decimals = i64(9)
	f.ContractID = "EQabc123"
	verified := true
	f.Verified = &verified
	f.Description = strings.Repeat("x", 400)
	f.SourceName = "tokens.swap.coffee"

	got = Render(f, lang.EN)
	for _, want := range []string{"Decimals: 9", "Contract: EQabc123", "Verified: yes", "Source: tokens.swap.coffee"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q:\n%s", want, got)
		}
	}
	if !strings.Contains(got, strings.Repeat("x", 180)+"…") {
		t.Error("description should truncate at 180 runes")
	}
	if strings.Contains(got, strings.Repeat("x", 181)) {
		t.Error("description exceeded the truncation limit")
	}
}

func TestRender_Deterministic(t *testing.T) {
	f := sampleFacts()
	first := Render(f, lang.EN)
	for i := 0; i < 5; i++ {
		if Render(f, lang.EN) != first {
			t.Fatal("renderer must be deterministic")
		}
	}
}

func TestCompact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"999", ""},
		{"1000", "1.0K"},
		{"1500", "1.5K"},
		{"1000000", "1.0M"},
		{"2500000000", "2.5B"},
		{"7200000000000", "7.2T"},
		{"3100000000000000", "3.1Q"},
		{"545217356060904508815", "545.2Qi"},
	}
	for _, tt := range tests {
		v, ok := new(big.Int).SetString(tt.in, 10)
		if !ok {
			t.Fatalf("bad test input %q", tt.in)
		}
		if got := Compact(v); got != tt.want {
			t.Errorf("Compact(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRender_CompactSecondaryForm(t *testing.T) {
	f := sampleFacts()
	f.TotalSupply, _ = new(big.Int).SetString("545217356060904508815", 10)
	got := Render(f, lang.EN)
	if !strings.Contains(got, "545,217,356,060,904,508,815") {
		t.Errorf("grouped value must stay primary:\n%s", got)
	}
	if !strings.Contains(got, "≈545.2Qi") {
		t.Errorf("expected compact secondary form:\n%s", got)
	}
}
