package model

// TickerCandidate is a ranked ticker-symbol guess extracted from free text.
// Ephemeral: created per extraction call, never persisted.
type TickerCandidate struct {
	RawToken string // token as it appeared in the message
	Symbol   string // normalized uppercase, 2-10 alphanumeric chars
	Score    int
}
