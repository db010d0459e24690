// Package queue persists tasks and job assignments in SQLite.
//
// A task is a repeatable unit of work with a target repetition count and a
// priority; a job is one claimed repetition, owned by exactly one worker.
// The Store manages schema creation and versioned upgrades, the atomic
// claim that hands the next eligible job to a worker, and the start/finish
// audit log per job.
//
// No state is cached between calls: every operation reads what it needs
// from the database at call time, so any number of processes may share one
// database file. Claim runs inside a single immediate transaction, which is
// what guarantees a task is never assigned beyond its count under
// concurrent claimants.
//
// Treat this package as the single source of truth for queue semantics;
// schema changes add a migration step and bump schemaVersion in schema.go.
package queue
