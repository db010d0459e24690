package queue

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrSchemaTooNew means the database was written by a newer build and
	// must not be touched. Wrapped by a SchemaTooNewError carrying the
	// version that was found.
	ErrSchemaTooNew = errors.New("database schema is too new")

	// ErrDuplicateData means a task with byte-identical data already exists.
	ErrDuplicateData = errors.New("task with identical data already exists")

	// ErrDuplicateStart means a start event was already logged for the job.
	ErrDuplicateStart = errors.New("start already logged for job")

	// ErrDuplicateFinish means a finish event was already logged for the job.
	ErrDuplicateFinish = errors.New("finish already logged for job")

	// ErrNoCurrentJob means the worker has no outstanding claim to log
	// events against. This is a usage error on the caller's side.
	ErrNoCurrentJob = errors.New("worker has no current job")

	// ErrTaskNotFound means the referenced task id does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrJobNotFound means the referenced job id does not exist.
	ErrJobNotFound = errors.New("job not found")
)

// SchemaTooNewError reports a database written by a newer build.
type SchemaTooNewError struct {
	Found     int64
	Supported int64
}

func (e *SchemaTooNewError) Error() string {
	return fmt.Sprintf("database schema version %d exceeds the maximum supported version %d", e.Found, e.Supported)
}

func (e *SchemaTooNewError) Unwrap() error { return ErrSchemaTooNew }

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
}
