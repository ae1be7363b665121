package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const sqliteMessagesSchema = `
CREATE TABLE IF NOT EXISTS messages (
	id         TEXT PRIMARY KEY,
	sender     TEXT NOT NULL,
	direction  TEXT NOT NULL,
	body       TEXT NOT NULL,
	created_at TEXT NOT NULL
)`

// SQLiteStore logs messages to a local sqlite file. It is the fallback when
// no DATABASE_URL is configured.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (and creates, if needed) the sqlite database at path.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteMessagesSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure messages table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) SaveMessage(ctx context.Context, rec MessageRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (id, sender, direction, body, created_at) VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Sender, rec.Direction, rec.Body, rec.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

var _ MessageStore = (*SQLiteStore)(nil)
