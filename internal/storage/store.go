// Package storage persists tasks, categories, time logs, and TO-DO items
// in a SQLite database. All records are scoped to an owner; every mutation
// verifies ownership before touching anything.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/timeblock/timeblock/internal/logging"
)

var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotOwner means the record exists but belongs to someone else.
	ErrNotOwner = errors.New("record owned by another user")
	// ErrDuplicateName means a category with that name already exists for
	// the owner. Category names are unique per owner, not globally.
	ErrDuplicateName = errors.New("category name already in use")
)

// Store wraps the SQLite database connection.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and runs migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	logging.Debug("storage", "opened database at %s", path)
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		id          TEXT PRIMARY KEY,
		owner       TEXT NOT NULL,
		title       TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		start_time  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		end_time    TEXT NOT NULL,
		category    TEXT NOT NULL DEFAULT '',
		secondary   TEXT NOT NULL DEFAULT '[]',
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_tasks_owner ON tasks(owner);

	CREATE TABLE IF NOT EXISTS categories (
		id         TEXT PRIMARY KEY,
		owner      TEXT NOT NULL,
		name       TEXT NOT NULL,
		color      TEXT NOT NULL,
		text_color TEXT NOT NULL,
		UNIQUE(owner, name)
	);

	CREATE TABLE IF NOT EXISTS time_logs (
		id         TEXT PRIMARY KEY,
		task_id    TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		duration   INTEGER NOT NULL,
		note       TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_time_logs_task ON time_logs(task_id);

	CREATE TABLE IF NOT EXISTS todos (
		id         TEXT PRIMARY KEY,
		owner      TEXT NOT NULL,
		text       TEXT NOT NULL,
		completed  INTEGER NOT NULL DEFAULT 0,
		start_date TEXT NOT NULL DEFAULT '',
		end_date   TEXT NOT NULL DEFAULT '',
		position   INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner, position);
	`
	_, err := s.db.Exec(schema)
	return err
}
