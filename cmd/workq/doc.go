// Command workq is a command-line work-stealing scheduler backed by a
// single SQLite database shared between any number of local processes.
//
// Tasks are defined with a payload, a repetition count, and a priority;
// workers take one repetition at a time and report start/finish events.
// Exit codes: 0 success, 1 error, 2 take found no work available; monitor
// exits with the supervised command's shell-encoded status.
package main
