package execresult

import (
	"fmt"
	"os"
	"syscall"
)

// StartFailureCode is the log encoding for a process that never started.
const StartFailureCode = 512

const (
	signalLogBase   = 256
	signalShellBase = 128
)

// Outcome classifies how a supervised subprocess ended. The zero value is
// a normal exit with status 0.
type Outcome struct {
	startFailed bool
	signaled    bool
	signal      int
	exitCode    int
}

// Exited returns the outcome for a normal exit with the given status.
func Exited(code int) Outcome {
	return Outcome{exitCode: code}
}

// Signaled returns the outcome for a process terminated by signal sig.
func Signaled(sig int) Outcome {
	return Outcome{signaled: true, signal: sig}
}

// StartFailure returns the outcome for a process that could not be started.
func StartFailure() Outcome {
	return Outcome{startFailed: true}
}

// FromProcessState classifies a finished process.
func FromProcessState(state *os.ProcessState) Outcome {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Signaled(int(ws.Signal()))
	}
	return Exited(state.ExitCode())
}

// LogCode returns the durable log encoding of the outcome.
func (o Outcome) LogCode() int64 {
	switch {
	case o.startFailed:
		return StartFailureCode
	case o.signaled:
		return int64(signalLogBase + o.signal)
	default:
		return int64(o.exitCode)
	}
}

// ShellCode returns the exit status the supervising process should report
// to its own caller.
func (o Outcome) ShellCode() int {
	switch {
	case o.startFailed:
		return -1
	case o.signaled:
		return signalShellBase + o.signal
	default:
		return o.exitCode
	}
}

func (o Outcome) String() string {
	switch {
	case o.startFailed:
		return "failed to start"
	case o.signaled:
		return fmt.Sprintf("killed by signal %d", o.signal)
	default:
		return fmt.Sprintf("exited with status %d", o.exitCode)
	}
}
