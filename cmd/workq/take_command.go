package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/spf13/cobra"

	"workq/internal/queue"
)

var errNoWorkYet = errors.New("no work available yet")

func newTakeCommand(ctx *commandContext) *cobra.Command {
	var wait bool

	cmd := &cobra.Command{
		Use:   "take [worker-id]",
		Short: "Atomically claim the next available job",
		Long: `Claim the next eligible job for a worker and print its data.

When the queue has no work, take exits with status 2 so scripts can tell
"nothing to do" apart from an error. With --wait, take polls until a job
becomes available; the queue itself never blocks.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			worker, err := ctx.resolveWorker(cmd, args)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *queue.Store) error {
				var job *queue.Job
				if wait {
					job, err = claimWithBackoff(cmd, store, worker)
				} else {
					job, err = store.Claim(cmd.Context(), worker)
				}
				if err != nil {
					return err
				}
				if job == nil {
					fmt.Fprintln(cmd.ErrOrStderr(), "no work available")
					return exitStatusError{code: exitNoWork}
				}
				_, err = cmd.OutOrStdout().Write(job.Data)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&wait, "wait", "w", false, "Poll until a job becomes available")
	return cmd
}

// claimWithBackoff implements wait-for-work as a caller-side retry loop;
// each claim remains an independent, non-blocking transaction.
func claimWithBackoff(cmd *cobra.Command, store *queue.Store, worker string) (*queue.Job, error) {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxInterval = 5 * time.Second
	policy.MaxElapsedTime = 0 // poll until cancelled

	var job *queue.Job
	operation := func() error {
		j, err := store.Claim(cmd.Context(), worker)
		if err != nil {
			return backoff.Permanent(err)
		}
		if j == nil {
			return errNoWorkYet
		}
		job = j
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(policy, cmd.Context())); err != nil {
		return nil, err
	}
	return job, nil
}
