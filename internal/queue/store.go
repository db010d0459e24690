package queue

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"

	_ "modernc.org/sqlite"

	"workq/internal/config"
)

// Store manages task and job persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Create initializes a new queue database at the configured path and writes
// the current schema. Creating over an already-initialized database fails on
// the existing-table conflict.
func Create(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	db, err := openDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: cfg.DatabasePath, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	if err := store.createSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Open connects to an existing queue database and upgrades older schema
// layouts in place. A database written by a newer build is refused with
// ErrSchemaTooNew. The logger may be nil.
func Open(cfg *config.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := openDB(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: cfg.DatabasePath, logger: logger}
	if err := store.upgrade(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path backing the store.
func (s *Store) Path() string {
	return s.path
}

func openDB(path string) (*sql.DB, error) {
	dsn := "file:" + path + "?_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// Pragmas apply per connection, so keep the pool at a single one.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	return db, nil
}
