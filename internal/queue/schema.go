package queue

import (
	"context"
	"fmt"
)

// schemaVersion is the current schema version. Databases at older versions
// are upgraded in place by the steps in migrations.go; newer versions are
// refused.
const schemaVersion = 2

// All timestamps are stored as epoch seconds.
var schemaStatements = []string{
	`CREATE TABLE meta (version INTEGER)`,
	`CREATE TABLE task (
        id INTEGER PRIMARY KEY,
        count INTEGER NOT NULL,
        data BLOB NOT NULL UNIQUE,
        priority INTEGER
    )`,
	`CREATE TABLE job (
        id INTEGER PRIMARY KEY,
        task REFERENCES task,
        time INTEGER,
        worker TEXT NOT NULL
    )`,
	`CREATE TABLE job_start (
        job PRIMARY KEY REFERENCES job,
        time INTEGER,
        cmd BLOB
    )`,
	`CREATE TABLE job_finish (
        job PRIMARY KEY REFERENCES job,
        result INTEGER,
        time INTEGER,
        data BLOB
    )`,
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range schemaStatements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO meta (version) VALUES (?)`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

func (s *Store) readVersion(ctx context.Context) (int64, error) {
	var version int64
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM meta`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version (is this a workq database?): %w", err)
	}
	return version, nil
}
