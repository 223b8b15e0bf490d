package model

import (
	"math/big"
	"strings"
)

// Token kinds reported by the authority service.
const (
	TypeToken  = "token"
	TypeJetton = "jetton"
	TypeNative = "native"
)

// TickerFacts is the verified payload for one symbol. Immutable once fetched
// within a request. Optional fields are nil/empty when the authority did not
// report them; they are never coerced to zero.
//
// TotalSupply is a big.Int because real jetton supplies exceed int64
// (e.g. 545,217,356,060,904,508,815).
type TickerFacts struct {
	Symbol       string
	Name         string
	Type         string
	Description  string
	TotalSupply  *big.Int
	Holders      *int64
	Decimals     *int64
	ContractID   string
	Verified     *bool
	LastActivity string
	SourceName   string
}

// OnTON reports whether the facts pin the token to the TON ecosystem,
// either by type (jettons only exist on TON) or by source name.
func (f *TickerFacts) OnTON() bool {
	if f == nil {
		return false
	}
	if f.Type == TypeJetton {
		return true
	}
	src := strings.ToLower(f.SourceName)
	return strings.Contains(src, "ton") || strings.Contains(src, "swap.coffee")
}
