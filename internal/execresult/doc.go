// Package execresult encodes subprocess outcomes for two distinct
// audiences.
//
// The log encoding is stored durably with a job's finish event and must
// keep three outcome classes distinguishable: a normal exit code 0..255 is
// stored as-is, death by signal S is stored as 256+S, and failure to start
// the process at all is the sentinel 512.
//
// The shell encoding is what a supervising process reports to its own
// caller: the exit code as-is, 128+S for signal S (the usual shell
// convention), and -1 when the process never started. The two encodings
// must never be conflated.
package execresult
