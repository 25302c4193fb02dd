// Package sqlitestore implements a versioned store.KV on SQLite
// (modernc.org/sqlite, no cgo). Each key is one row; every write bumps the
// row's version so callers can compare-and-swap.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/idilsaglam/suru/internal/store"
)

// DBFileName is the database file created inside the data directory.
const DBFileName = "suru.db"

const schema = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    version INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);`

var _ store.Versioned = (*Store)(nil)

// Store wraps one SQLite database. Close it when done.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open creates dataDir if needed and opens (or creates) DBFileName in it.
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return OpenPath(filepath.Join(dataDir, DBFileName))
}

// OpenPath opens the database at an explicit path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps writes serialized and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, _, err := s.GetVersioned(ctx, key)
	return v, err
}

func (s *Store) GetVersioned(ctx context.Context, key string) (string, int64, error) {
	if err := store.ValidateKey(key); err != nil {
		return "", 0, err
	}
	var (
		value   string
		version int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM kv WHERE key = ?`, key).Scan(&value, &version)
	if errors.Is(err, sql.ErrNoRows) {
		return "", 0, store.ErrNotFound
	}
	if err != nil {
		return "", 0, fmt.Errorf("select %s: %w", key, err)
	}
	return value, version, nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `INSERT INTO kv (key, value, version, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT(key) DO UPDATE SET
    value = excluded.value,
    version = kv.version + 1,
    updated_at = excluded.updated_at`, key, value, s.stamp())
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key, value string, version int64) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}
	var (
		res sql.Result
		err error
	)
	if version == 0 {
		res, err = s.db.ExecContext(ctx, `INSERT INTO kv (key, value, version, updated_at)
VALUES (?, ?, 1, ?)
ON CONFLICT(key) DO NOTHING`, key, value, s.stamp())
	} else {
		res, err = s.db.ExecContext(ctx, `UPDATE kv
SET value = ?, version = version + 1, updated_at = ?
WHERE key = ? AND version = ?`, value, s.stamp(), key, version)
	}
	if err != nil {
		return fmt.Errorf("swap %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
