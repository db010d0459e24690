package main

import (
	"errors"

	"github.com/spf13/cobra"

	"workq/internal/monitor"
	"workq/internal/queue"
)

func newMonitorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "monitor [worker-id] -- <command> [args...]",
		Short: "Run a command for the worker's current job, logging start and finish",
		Long: `Run a command on behalf of the worker's most recent claim.

A start event with the command line is logged before execution and a finish
event with the encoded outcome after: exit codes are stored as-is, death by
signal S as 256+S, and failure to start as 512. monitor itself exits with
the command's status, 128+S on signal, or -1 when it never started.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			before, command := splitAtDash(cmd, args)
			if len(command) == 0 {
				return errors.New("no command given (separate it with --)")
			}
			if len(before) > 1 {
				return errors.New("expected at most one worker-id before --")
			}
			worker, err := ctx.resolveWorker(cmd, before)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *queue.Store) error {
				supervisor := monitor.New(store, ctx.ensureLogger())
				code, err := supervisor.Run(cmd.Context(), worker, command)
				if err != nil {
					return err
				}
				if code != 0 {
					return exitStatusError{code: code}
				}
				return nil
			})
		},
	}
}
