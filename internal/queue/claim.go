package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Candidates are tasks with unassigned repetitions left, ordered by
// priority (unset scheduled as 0), then by id ascending. Within one
// priority tier this drains the lowest-id task completely before touching
// the next; balancing outstanding repetitions across a tier is a stated
// goal upstream but deliberately not part of the contract here.
const claimQuery = `
    SELECT task.id, task.data
    FROM task
    LEFT JOIN (SELECT task, COUNT(1) AS assigned FROM job GROUP BY task) counts
      ON counts.task = task.id
    WHERE COALESCE(counts.assigned, 0) < task.count
    ORDER BY COALESCE(task.priority, 0), task.id
    LIMIT 1`

// Claim atomically assigns the next eligible job to worker. It returns
// (nil, nil) when no work is available; that is a normal empty result, not
// an error. The candidate scan and the job insert share one immediate
// transaction, so concurrent claimants can never both take a task's last
// open slot.
func (s *Store) Claim(ctx context.Context, worker string) (*Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var taskID int64
	var data []byte
	err = tx.QueryRowContext(ctx, claimQuery).Scan(&taskID, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select claim candidate: %w", err)
	}

	now := time.Now().Unix()
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO job (task, time, worker) VALUES (?, ?, ?)`,
		taskID,
		now,
		worker,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	jobID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}

	return &Job{
		ID:        jobID,
		TaskID:    taskID,
		Data:      data,
		Worker:    worker,
		CreatedAt: time.Unix(now, 0).UTC(),
	}, nil
}
