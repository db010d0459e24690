package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"workq/internal/queue"
)

func newLogStartCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "log-start [worker-id] [-- command...]",
		Short: "Record that the worker's current job began executing",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			before, command := splitAtDash(cmd, args)
			if len(before) > 1 {
				return fmt.Errorf("unexpected argument %q (use -- before the command)", before[1])
			}
			worker, err := ctx.resolveWorker(cmd, before)
			if err != nil {
				return err
			}

			argv := make([][]byte, len(command))
			for i, arg := range command {
				argv[i] = []byte(arg)
			}

			return ctx.withStore(func(store *queue.Store) error {
				job, ok, err := store.CurrentJob(cmd.Context(), worker)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("worker %q: %w", worker, queue.ErrNoCurrentJob)
				}
				return store.LogStart(cmd.Context(), job, argv)
			})
		},
	}
}

func newLogFinishCommand(ctx *commandContext) *cobra.Command {
	var withOutput bool

	cmd := &cobra.Command{
		Use:   "log-finish [worker-id] <result>",
		Short: "Record the outcome of the worker's current job",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			workerArgs := args[:len(args)-1]
			result, err := parseInt(args[len(args)-1], "result")
			if err != nil {
				return err
			}
			worker, err := ctx.resolveWorker(cmd, workerArgs)
			if err != nil {
				return err
			}

			var output []byte
			if withOutput {
				output, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read output from stdin: %w", err)
				}
			}

			return ctx.withStore(func(store *queue.Store) error {
				job, ok, err := store.CurrentJob(cmd.Context(), worker)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("worker %q: %w", worker, queue.ErrNoCurrentJob)
				}
				return store.LogFinish(cmd.Context(), job, result, output)
			})
		},
	}

	cmd.Flags().BoolVar(&withOutput, "output", false, "Attach stdin as the job's output payload")
	return cmd
}

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var running bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List job ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				var (
					ids []int64
					err error
				)
				if running {
					ids, err = store.ListStartedUnfinished(cmd.Context())
				} else {
					ids, err = store.ListJobs(cmd.Context())
				}
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&running, "running", false, "Only jobs started and not yet finished")
	return cmd
}

func newJobCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "job <job-id>",
		Short: "Show a job's worker, events, and whether it is the worker's latest claim",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "job")
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				status, err := store.JobStatus(cmd.Context(), id)
				if err != nil {
					return err
				}
				printJobStatus(cmd.OutOrStdout(), status)
				return nil
			})
		},
	}
}

func printJobStatus(out io.Writer, status *queue.JobStatus) {
	fmt.Fprintf(out, "Job:      %d\n", status.JobID)
	fmt.Fprintf(out, "Worker:   %s\n", status.Worker)
	fmt.Fprintf(out, "Latest:   %s\n", yesNo(status.IsLatest))

	switch {
	case status.Start != nil:
		fmt.Fprintf(out, "Started:  %s%s\n", status.Start.Time.Format("2006-01-02 15:04:05"), formatCommand(status.Start.Command))
	case status.IsLatest:
		fmt.Fprintln(out, "Started:  not yet")
	default:
		fmt.Fprintln(out, "Started:  never (superseded by a later claim)")
	}

	if status.Finish != nil {
		fmt.Fprintf(out, "Finished: %s result=%d\n", status.Finish.Time.Format("2006-01-02 15:04:05"), status.Finish.Result)
	} else {
		fmt.Fprintln(out, "Finished: no")
	}
}

func formatCommand(argv [][]byte) string {
	if len(argv) == 0 {
		return ""
	}
	parts := make([]string, len(argv))
	for i, arg := range argv {
		parts[i] = fmt.Sprintf("%q", arg)
	}
	return " cmd: " + strings.Join(parts, " ")
}
