// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // sqlite driver
)

const (
	dirPermissions = 0o750
	busyTimeoutMs  = 5000
)

// ErrOpenStore is returned when the history database cannot be opened.
var ErrOpenStore = errors.New("failed to open history store")

// Store records sweep runs in a local SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
  id          TEXT PRIMARY KEY,
  run_group   TEXT NOT NULL,
  label       TEXT NOT NULL,
  pattern     TEXT NOT NULL DEFAULT '',
  status      TEXT NOT NULL,
  exit_code   INTEGER NOT NULL,
  started_at  TEXT NOT NULL DEFAULT '',
  duration_ms INTEGER NOT NULL,
  error       TEXT NOT NULL DEFAULT '',
  created_at  TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_runs_run_group ON runs(run_group);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
`

// DefaultPath returns the default history database location:
// $XDG_DATA_HOME/sweep/history.db, falling back to ~/.local/share.
func DefaultPath() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Join(ErrOpenStore, err)
		}

		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "sweep", "history.db"), nil
}

// Open opens the history database at path, creating the file, its
// directory and the schema as needed.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), dirPermissions); err != nil {
		return nil, errors.Join(ErrOpenStore, err)
	}

	connStr := fmt.Sprintf("file:%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL", path, busyTimeoutMs)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, errors.Join(ErrOpenStore, err)
	}

	// SQLite supports a single writer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close() //nolint:errcheck

		return nil, errors.Join(ErrOpenStore, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck

		return nil, errors.Join(ErrOpenStore, err)
	}

	return &Store{
		db:   db,
		path: path,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}

	return s.db.Close()
}

// Path returns the filesystem path of the database.
func (s *Store) Path() string {
	return s.path
}
