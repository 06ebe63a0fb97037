// Package sqlite provides a SQLite-backed implementation of kvstore.Store.
//
// WAL mode is enabled on Open so that the scheduler goroutines reading the
// session never block the HTTP handler writing it, and vice versa.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jcmexdev/swapshop-dashboard/internal/pkg/kvstore"

	// Pure-Go driver, no CGO needed.
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    -- Storage key, e.g. "swapshop_session".
    key         TEXT PRIMARY KEY,

    -- Opaque value; the session store writes JSON here.
    value       TEXT NOT NULL,

    -- Last write time (RFC3339 stored as TEXT, SQLite idiom).
    updated_at  TEXT NOT NULL
);
`

// Store is the SQLite implementation of kvstore.Store.
type Store struct {
	db      *sql.DB
	nowFunc func() time.Time
}

var _ kvstore.Store = (*Store)(nil)

// Open opens (or creates) the SQLite database at path and applies the schema.
//
//	store, err := sqlite.Open("./data/dashboard.db")
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	// "sqlite", not "sqlite3", for the modernc driver.
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, nowFunc: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", kvstore.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("sqlite: get %q: %w", key, err)
	}
	return value, nil
}

// Set upserts the value for key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	const q = `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value      = excluded.value,
			updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, q, key, value, s.nowFunc().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sqlite: set %q: %w", key, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("sqlite: delete %q: %w", key, err)
	}
	return nil
}

// UpdatedAt returns the last write time of key.
func (s *Store) UpdatedAt(ctx context.Context, key string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM kv WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, kvstore.ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("sqlite: updated_at %q: %w", key, err)
	}
	return parseRFC3339(raw)
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}
