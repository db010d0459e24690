package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DefineTask inserts a new task with the given payload, repetition count,
// and optional priority (nil means unset, scheduled as 0). The payload must
// be unique across all tasks.
func (s *Store) DefineTask(ctx context.Context, data []byte, count int64, priority *int64) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO task (data, count, priority) VALUES (?, ?, ?)`,
		data,
		count,
		nullableInt(priority),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("define task: %w", ErrDuplicateData)
		}
		return 0, fmt.Errorf("define task: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return id, nil
}

// AdjustCount adds delta to a task's repetition count. The result may drop
// below the number of jobs already assigned; remaining work is always
// computed, never stored, so no floor applies here.
func (s *Store) AdjustCount(ctx context.Context, task int64, delta int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE task SET count = count + ? WHERE id = ?`, delta, task)
	if err != nil {
		return fmt.Errorf("adjust count: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("adjust count for task %d: %w", task, ErrTaskNotFound)
	}
	return nil
}

// SetPriority replaces a task's priority. Lower values are scheduled sooner.
func (s *Store) SetPriority(ctx context.Context, task int64, priority int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE task SET priority = ? WHERE id = ?`, priority, task)
	if err != nil {
		return fmt.Errorf("set priority: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("set priority for task %d: %w", task, ErrTaskNotFound)
	}
	return nil
}

// Remaining returns how many repetitions of a task are still unassigned,
// clamped at zero. Assignment never overshoots by construction, but an
// AdjustCount below the assigned count can push the raw difference negative.
func (s *Store) Remaining(ctx context.Context, task int64) (int64, error) {
	var remaining int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT count - (SELECT COUNT(1) FROM job WHERE job.task = task.id) FROM task WHERE id = ?`,
		task,
	).Scan(&remaining)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("remaining for task %d: %w", task, ErrTaskNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("remaining: %w", err)
	}
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// TaskData returns the payload associated with a task.
func (s *Store) TaskData(ctx context.Context, task int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM task WHERE id = ?`, task).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("data for task %d: %w", task, ErrTaskNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("task data: %w", err)
	}
	return data, nil
}

// TaskPriority returns a task's priority, treating unset as 0.
func (s *Store) TaskPriority(ctx context.Context, task int64) (int64, error) {
	var priority int64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(priority, 0) FROM task WHERE id = ?`, task).Scan(&priority)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("priority for task %d: %w", task, ErrTaskNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("task priority: %w", err)
	}
	return priority, nil
}

// ListPending returns the ids of all tasks with remaining repetitions,
// ascending.
func (s *Store) ListPending(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT task.id FROM task `+pendingJoin+` ORDER BY task.id`)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer rows.Close()
	return scanIDs(rows)
}

// PendingTasks returns a summary of every unexhausted task, ascending by id.
func (s *Store) PendingTasks(ctx context.Context) ([]TaskSummary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT task.id, task.count - COALESCE(counts.assigned, 0), COALESCE(task.priority, 0), task.data
         FROM task `+pendingJoin+` ORDER BY task.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	defer rows.Close()

	var tasks []TaskSummary
	for rows.Next() {
		var t TaskSummary
		if err := rows.Scan(&t.ID, &t.Remaining, &t.Priority, &t.Data); err != nil {
			return nil, fmt.Errorf("scan pending task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

const pendingJoin = `
    LEFT JOIN (SELECT task, COUNT(1) AS assigned FROM job GROUP BY task) counts
      ON counts.task = task.id
    WHERE COALESCE(counts.assigned, 0) < task.count`

func scanIDs(rows *sql.Rows) ([]int64, error) {
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func nullableInt(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}
