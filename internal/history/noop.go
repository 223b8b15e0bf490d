package history

import (
	"time"

	"TokenSentinel/internal/model"
)

// NoopStore discards everything. Used when no database path is configured.
type NoopStore struct{}

func (NoopStore) UpsertUser(User) error                           { return nil }
func (NoopStore) SaveMessage(int64, string, string) error         { return nil }
func (NoopStore) History(int64, int) ([]model.ChatMessage, error) { return nil, nil }
func (NoopStore) LastByRole(int64, string) (string, error)        { return "", nil }
func (NoopStore) PruneMessages(time.Duration) (int64, error)      { return 0, nil }
func (NoopStore) Close() error                                    { return nil }
