package authority

import (
	"math/big"
	"regexp"
	"strings"

	"TokenSentinel/internal/model"
)

var groupingRe = regexp.MustCompile(`[,_\s]`)

// parseFacts converts a loosely-typed authority payload into TickerFacts.
// Every field is presence-checked; numeric fields are coerced best-effort
// (int, float, string with grouping) and left nil when unusable.
func parseFacts(symbol string, payload map[string]any) *model.TickerFacts {
	f := &model.TickerFacts{Symbol: symbol}

	if s := stringField(payload, "symbol"); s != "" {
		f.Symbol = strings.ToUpper(s)
	}
	f.Name = stringField(payload, "name")
	f.Type = strings.ToLower(stringField(payload, "type", "token_type"))
	f.Description = stringField(payload, "description")
	f.ContractID = stringField(payload, "contract_id", "address", "contract")
	f.LastActivity = stringField(payload, "last_activity", "updated_at")
	f.SourceName = stringField(payload, "source", "source_name")

	f.TotalSupply = bigField(payload, "total_supply", "supply")
	if h := intField(payload, "holders", "holder_count", "holders_count"); h != nil {
		f.Holders = h
	}
	if d := intField(payload, "decimals"); d != nil {
		f.Decimals = d
	}
	if v, ok := payload["verified"].(bool); ok {
		f.Verified = &v
	}
	return f
}

func stringField(payload map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := payload[k].(string); ok {
			if t := strings.TrimSpace(s); t != "" {
				return t
			}
		}
	}
	return ""
}

func bigField(payload map[string]any, keys ...string) *big.Int {
	for _, k := range keys {
		v, ok := payload[k]
		if !ok || v == nil {
			continue
		}
		if n := coerceBig(v); n != nil {
			return n
		}
	}
	return nil
}

func intField(payload map[string]any, keys ...string) *int64 {
	if b := bigField(payload, keys...); b != nil && b.IsInt64() {
		n := b.Int64()
		return &n
	}
	return nil
}

// coerceBig accepts JSON numbers, floats, and strings with comma/underscore/
// space grouping. Booleans and junk return nil, never zero.
func coerceBig(v any) *big.Int {
	switch n := v.(type) {
	case float64:
		// JSON numbers arrive as float64; truncate like the source does.
		f := new(big.Float).SetFloat64(n)
		i, _ := f.Int(nil)
		return i
	case string:
		cleaned := groupingRe.ReplaceAllString(strings.TrimSpace(n), "")
		if cleaned == "" {
			return nil
		}
		i, ok := new(big.Int).SetString(cleaned, 10)
		if !ok || i.Sign() < 0 {
			return nil
		}
		return i
	default:
		return nil
	}
}
