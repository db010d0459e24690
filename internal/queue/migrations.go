package queue

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gofrs/flock"
)

// Each migration step upgrades the schema by exactly one version and runs
// inside its own transaction, so a failed step leaves the stored version
// unchanged and a retried open resumes from the last consistent layout.
var migrations = map[int64]func(context.Context, *sql.Tx) error{
	1: migrateV1ToV2,
}

func (s *Store) upgrade(ctx context.Context) error {
	version, err := s.readVersion(ctx)
	if err != nil {
		return err
	}
	if version == schemaVersion {
		return nil
	}
	if version > schemaVersion {
		return &SchemaTooNewError{Found: version, Supported: schemaVersion}
	}

	// Structural changes toggle foreign_keys, which is connection-global,
	// so concurrent upgraders must be serialized outside SQLite.
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() { _ = lock.Unlock() }()

	for {
		version, err := s.readVersion(ctx)
		if err != nil {
			return err
		}
		if version == schemaVersion {
			return nil
		}
		if version > schemaVersion {
			return &SchemaTooNewError{Found: version, Supported: schemaVersion}
		}

		step, ok := migrations[version]
		if !ok {
			return fmt.Errorf("no migration from schema version %d", version)
		}
		if err := s.applyStep(ctx, version, step); err != nil {
			return fmt.Errorf("upgrade schema version %d -> %d: %w", version, version+1, err)
		}
		s.logger.Info("upgraded database schema", "from", version, "to", version+1)
	}
}

func (s *Store) applyStep(ctx context.Context, version int64, step func(context.Context, *sql.Tx) error) error {
	// Renames and retypes are not referential-integrity-safe mid-step.
	// foreign_keys is a no-op inside a transaction, so toggle it outside
	// and re-validate all references explicitly before committing.
	if _, err := s.db.ExecContext(ctx, `PRAGMA foreign_keys = OFF`); err != nil {
		return fmt.Errorf("disable foreign keys: %w", err)
	}
	defer func() {
		_, _ = s.db.ExecContext(ctx, `PRAGMA foreign_keys = ON`)
	}()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := step(ctx, tx); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE meta SET version = ?`, version+1); err != nil {
		return fmt.Errorf("bump schema version: %w", err)
	}
	if err := checkForeignKeys(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

func checkForeignKeys(ctx context.Context, tx *sql.Tx) error {
	rows, err := tx.QueryContext(ctx, `PRAGMA foreign_key_check`)
	if err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	defer rows.Close()

	if rows.Next() {
		var table string
		var rowid, parentRowid any
		var parent string
		_ = rows.Scan(&table, &rowid, &parent, &parentRowid)
		return fmt.Errorf("foreign key check failed: dangling reference in %s", table)
	}
	return rows.Err()
}

// migrateV1ToV2 renames the original job table to task, adds priority, and
// splits assignments out of the old worker table into the new job table
// alongside the start/finish audit tables.
func migrateV1ToV2(ctx context.Context, tx *sql.Tx) error {
	stmts := []string{
		`ALTER TABLE job RENAME TO task`,
		`ALTER TABLE task ADD priority INTEGER`,
		`CREATE TABLE job (
            id INTEGER PRIMARY KEY,
            task REFERENCES task,
            time INTEGER,
            worker TEXT NOT NULL
        )`,
		`INSERT INTO job (id, task, time, worker)
         SELECT id, job, NULL, CAST(data AS TEXT) FROM worker`,
		`DROP TABLE worker`,
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
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply v1->v2 step: %w", err)
		}
	}
	return nil
}
