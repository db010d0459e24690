// Package monitor supervises one execution of a worker's current job.
//
// Run resolves the job the worker most recently claimed, brackets the
// subprocess with start and finish events, and reports the outcome in both
// encodings: the log encoding lands in the finish event, the shell
// encoding is returned for the caller's own exit status.
package monitor
