package history

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TokenSentinel/internal/logger"
	"TokenSentinel/internal/model"
)

// SQLiteStore keeps users and messages in a local SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads do not block the single writer.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithComponent("history").Infof("sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id    INTEGER UNIQUE NOT NULL,
			username       TEXT,
			first_name     TEXT,
			last_name      TEXT,
			language_code  TEXT,
			created_at     INTEGER NOT NULL,
			updated_at     INTEGER NOT NULL,
			last_active_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_users_telegram_id ON users(telegram_id)`,

		`CREATE TABLE IF NOT EXISTS messages (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER NOT NULL,
			role        TEXT NOT NULL CHECK (role IN ('system', 'user', 'assistant')),
			content     TEXT NOT NULL,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_user ON messages(telegram_id, id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) UpsertUser(u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().Unix()
	_, err := s.db.Exec(`INSERT INTO users
		(telegram_id, username, first_name, last_name, language_code, created_at, updated_at, last_active_at)
		VALUES (?,?,?,?,?,?,?,?)
		ON CONFLICT(telegram_id) DO UPDATE SET
			username       = excluded.username,
			first_name     = excluded.first_name,
			last_name      = excluded.last_name,
			language_code  = excluded.language_code,
			updated_at     = excluded.updated_at,
			last_active_at = excluded.last_active_at`,
		u.TelegramID, u.Username, u.FirstName, u.LastName, u.LanguageCode, now, now, now,
	)
	return err
}

func (s *SQLiteStore) SaveMessage(telegramID int64, role, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO messages (telegram_id, role, content, created_at) VALUES (?,?,?,?)`,
		telegramID, role, content, s.now().Unix(),
	)
	return err
}

// History returns the most recent messages in chronological order. The id
// column orders messages written within the same second.
func (s *SQLiteStore) History(telegramID int64, limit int) ([]model.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT role, content FROM (
			SELECT id, role, content FROM messages
			WHERE telegram_id = ?
			ORDER BY id DESC
			LIMIT ?
		) ORDER BY id ASC`,
		telegramID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var history []model.ChatMessage
	for rows.Next() {
		var msg model.ChatMessage
		if err := rows.Scan(&msg.Role, &msg.Content); err != nil {
			return nil, err
		}
		history = append(history, msg)
	}
	return history, rows.Err()
}

func (s *SQLiteStore) LastByRole(telegramID int64, role string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var content string
	err := s.db.QueryRow(
		`SELECT content FROM messages WHERE telegram_id = ? AND role = ? ORDER BY id DESC LIMIT 1`,
		telegramID, role,
	).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return content, err
}

func (s *SQLiteStore) PruneMessages(maxAge time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge).Unix()
	res, err := s.db.Exec(`DELETE FROM messages WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLiteStore) Close() error {
	logger.WithComponent("history").Info("closing sqlite store")
	return s.db.Close()
}
