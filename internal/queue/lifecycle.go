package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CurrentJob resolves the job a worker currently holds: its highest job id,
// regardless of start/finish state. ok is false when the worker has never
// claimed anything.
func (s *Store) CurrentJob(ctx context.Context, worker string) (id int64, ok bool, err error) {
	err = s.db.QueryRowContext(
		ctx,
		`SELECT id FROM job WHERE worker = ? ORDER BY id DESC LIMIT 1`,
		worker,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("current job for worker %q: %w", worker, err)
	}
	return id, true, nil
}

// LogStart records that a job began executing with the given argv. At most
// one start event may exist per job.
func (s *Store) LogStart(ctx context.Context, job int64, argv [][]byte) error {
	cmd, err := encodeCommand(argv)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO job_start (job, time, cmd) VALUES (?, ?, ?)`,
		job,
		time.Now().Unix(),
		cmd,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("log start for job %d: %w", job, ErrDuplicateStart)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("log start for job %d: %w", job, ErrJobNotFound)
		}
		return fmt.Errorf("log start: %w", err)
	}
	return nil
}

// LogFinish records a job's outcome using the log encoding from
// internal/execresult, with an optional output payload. At most one finish
// event may exist per job. Start and finish are independent: finishing a
// job that was never started succeeds.
func (s *Store) LogFinish(ctx context.Context, job int64, result int64, output []byte) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO job_finish (job, result, time, data) VALUES (?, ?, ?, ?)`,
		job,
		result,
		time.Now().Unix(),
		nullableBlob(output),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("log finish for job %d: %w", job, ErrDuplicateFinish)
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("log finish for job %d: %w", job, ErrJobNotFound)
		}
		return fmt.Errorf("log finish: %w", err)
	}
	return nil
}

// ListJobs returns all job ids in ascending order.
func (s *Store) ListJobs(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id FROM job ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// ListStartedUnfinished returns the ids of jobs with a start event and no
// finish event, ascending. No other filtering applies.
func (s *Store) ListStartedUnfinished(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT job_start.job
         FROM job_start
         LEFT JOIN job_finish ON job_start.job = job_finish.job
         WHERE job_finish.job IS NULL
         ORDER BY job_start.job`,
	)
	if err != nil {
		return nil, fmt.Errorf("list started unfinished jobs: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// JobStatus returns everything known about a job. IsLatest distinguishes
// "claimed but still pending" from "abandoned, will never start" when no
// start event exists.
func (s *Store) JobStatus(ctx context.Context, job int64) (*JobStatus, error) {
	var worker string
	err := s.db.QueryRowContext(ctx, `SELECT worker FROM job WHERE id = ?`, job).Scan(&worker)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("status for job %d: %w", job, ErrJobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("job worker: %w", err)
	}

	latest, ok, err := s.CurrentJob(ctx, worker)
	if err != nil {
		return nil, err
	}

	status := &JobStatus{
		JobID:    job,
		Worker:   worker,
		IsLatest: ok && latest == job,
	}

	status.Start, err = s.jobStart(ctx, job)
	if err != nil {
		return nil, err
	}
	status.Finish, err = s.jobFinish(ctx, job)
	if err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Store) jobStart(ctx context.Context, job int64) (*StartEvent, error) {
	var when int64
	var cmd []byte
	err := s.db.QueryRowContext(ctx, `SELECT time, cmd FROM job_start WHERE job = ?`, job).Scan(&when, &cmd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("job start: %w", err)
	}

	argv, err := decodeCommand(cmd)
	if err != nil {
		return nil, err
	}
	return &StartEvent{Time: time.Unix(when, 0).UTC(), Command: argv}, nil
}

func (s *Store) jobFinish(ctx context.Context, job int64) (*FinishEvent, error) {
	var when, result int64
	var output []byte
	err := s.db.QueryRowContext(ctx, `SELECT time, result, data FROM job_finish WHERE job = ?`, job).Scan(&when, &result, &output)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("job finish: %w", err)
	}
	return &FinishEvent{Time: time.Unix(when, 0).UTC(), Result: result, Output: output}, nil
}

func nullableBlob(value []byte) any {
	if len(value) == 0 {
		return nil
	}
	return value
}
