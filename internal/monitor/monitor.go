package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"

	"golang.org/x/sys/unix"

	"workq/internal/execresult"
	"workq/internal/queue"
)

// Supervisor runs commands on behalf of a worker and records their
// lifecycle in the queue store.
type Supervisor struct {
	store  *queue.Store
	logger *slog.Logger
}

// New returns a Supervisor. The logger may be nil.
func New(store *queue.Store, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Supervisor{store: store, logger: logger}
}

// Run executes argv for the worker's current job, logging start and finish
// events around it. It returns the shell-encoded exit status the caller
// should report. A worker with no outstanding claim is a usage error
// (queue.ErrNoCurrentJob).
func (s *Supervisor) Run(ctx context.Context, worker string, argv []string) (int, error) {
	if len(argv) == 0 {
		return 0, errors.New("monitor: no command given")
	}

	job, ok, err := s.store.CurrentJob(ctx, worker)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("monitor worker %q: %w", worker, queue.ErrNoCurrentJob)
	}

	cmdBytes := make([][]byte, len(argv))
	for i, arg := range argv {
		cmdBytes[i] = []byte(arg)
	}
	if err := s.store.LogStart(ctx, job, cmdBytes); err != nil {
		return 0, err
	}
	s.logger.Debug("job started", "job", job, "worker", worker, "command", argv[0])

	outcome := s.supervise(ctx, argv)

	if err := s.store.LogFinish(ctx, job, outcome.LogCode(), nil); err != nil {
		return 0, err
	}
	s.logger.Info("job finished", "job", job, "worker", worker, "outcome", outcome.String())

	return outcome.ShellCode(), nil
}

func (s *Supervisor) supervise(ctx context.Context, argv []string) execresult.Outcome {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		s.logger.Warn("command failed to start", "command", argv[0], "error", err)
		return execresult.StartFailure()
	}

	// Pass interactive interrupts through to the child; its death is then
	// observed and encoded like any other termination.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, unix.SIGINT, unix.SIGTERM)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-done:
				return
			}
		}
	}()
	defer func() {
		signal.Stop(sigCh)
		close(done)
	}()

	err := cmd.Wait()
	if err == nil {
		return execresult.Exited(0)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return execresult.FromProcessState(exitErr.ProcessState)
	}
	// Wait failed for reasons other than the process's own exit.
	s.logger.Warn("wait failed", "command", argv[0], "error", err)
	return execresult.StartFailure()
}
