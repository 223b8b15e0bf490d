// Package history persists users and per-user conversation history.
package history

import (
	"time"

	"TokenSentinel/internal/model"
)

// User mirrors the Telegram profile fields worth keeping.
type User struct {
	TelegramID   int64
	Username     string
	FirstName    string
	LastName     string
	LanguageCode string
}

// Store is the persistence interface; SQLiteStore is the real one and
// NoopStore keeps the bot usable without a database.
type Store interface {
	// UpsertUser inserts the user or refreshes profile fields and
	// last-activity time.
	UpsertUser(u User) error

	// SaveMessage appends one message to the user's conversation log.
	SaveMessage(telegramID int64, role, content string) error

	// History returns up to limit most recent messages for the user,
	// oldest first, ready to feed to the LLM.
	History(telegramID int64, limit int) ([]model.ChatMessage, error)

	// LastByRole returns the newest message content for the role, or ""
	// when there is none.
	LastByRole(telegramID int64, role string) (string, error)

	// PruneMessages deletes messages older than maxAge and reports how
	// many were removed.
	PruneMessages(maxAge time.Duration) (int64, error)

	Close() error
}
