package history

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TokenSentinel/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestUpsertUser(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertUser(User{TelegramID: 42, Username: "old", LanguageCode: "en"}))
	require.NoError(t, s.UpsertUser(User{TelegramID: 42, Username: "new", LanguageCode: "ru"}))

	var username, langCode string
	err := s.db.QueryRow(`SELECT username, language_code FROM users WHERE telegram_id = 42`).
		Scan(&username, &langCode)
	require.NoError(t, err)
	assert.Equal(t, "new", username)
	assert.Equal(t, "ru", langCode)

	var count int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count))
	assert.Equal(t, 1, count, "upsert must not duplicate users")
}

func TestHistory_RecentInChronologicalOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 7; i++ {
		role := model.RoleUser
		if i%2 == 0 {
			role = model.RoleAssistant
		}
		require.NoError(t, s.SaveMessage(42, role, fmt.Sprintf("msg %d", i)))
	}

	got, err := s.History(42, 5)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, "msg 3", got[0].Content, "oldest of the kept window comes first")
	assert.Equal(t, "msg 7", got[4].Content)
}

func TestHistory_IsolatedPerUser(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.SaveMessage(1, model.RoleUser, "from one"))
	require.NoError(t, s.SaveMessage(2, model.RoleUser, "from two"))

	got, err := s.History(1, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "from one", got[0].Content)
}

func TestLastByRole(t *testing.T) {
	s := newTestStore(t)

	got, err := s.LastByRole(42, model.RoleAssistant)
	require.NoError(t, err)
	assert.Empty(t, got, "no rows means empty content, not an error")

	require.NoError(t, s.SaveMessage(42, model.RoleAssistant, "first"))
	require.NoError(t, s.SaveMessage(42, model.RoleUser, "question"))
	require.NoError(t, s.SaveMessage(42, model.RoleAssistant, "second"))

	got, err = s.LastByRole(42, model.RoleAssistant)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestPruneMessages(t *testing.T) {
	s := newTestStore(t)

	clock := time.Now()
	s.now = func() time.Time { return clock }

	require.NoError(t, s.SaveMessage(42, model.RoleUser, "old"))
	clock = clock.Add(48 * time.Hour)
	require.NoError(t, s.SaveMessage(42, model.RoleUser, "fresh"))

	dropped, err := s.PruneMessages(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dropped)

	got, err := s.History(42, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Content)
}
