package queue

import "time"

// Job is one claimed repetition of a task, fixed at claim time.
type Job struct {
	ID        int64
	TaskID    int64
	Data      []byte
	Worker    string
	CreatedAt time.Time
}

// TaskSummary describes an unexhausted task for listing.
type TaskSummary struct {
	ID        int64
	Remaining int64
	Priority  int64
	Data      []byte
}

// StartEvent records that a worker began executing a job.
type StartEvent struct {
	Time    time.Time
	Command [][]byte
}

// FinishEvent records the outcome of a job's execution. Result uses the
// log encoding from internal/execresult: 0..255 for normal exits, 256+S
// for death by signal S, 512 when the process never started.
type FinishEvent struct {
	Time   time.Time
	Result int64
	Output []byte
}

// JobStatus aggregates everything known about a single job. IsLatest
// reports whether this is the worker's most recent claim; a job with no
// start event is "still pending" only when it is the latest one, otherwise
// it was abandoned and will never start.
type JobStatus struct {
	JobID    int64
	Worker   string
	IsLatest bool
	Start    *StartEvent
	Finish   *FinishEvent
}
