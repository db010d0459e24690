package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"workq/internal/queue"
)

func newInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create a new queue database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := queue.Create(cfg)
			if err != nil {
				return err
			}
			defer store.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "initialized %s\n", store.Path())
			return nil
		},
	}
}

func newCreateCommand(ctx *commandContext) *cobra.Command {
	var dataFlag string
	var count int64
	var priority int64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Define a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data := []byte(dataFlag)
			if !cmd.Flags().Changed("data") {
				var err error
				data, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read task data from stdin: %w", err)
				}
			}

			var prio *int64
			if cmd.Flags().Changed("priority") {
				prio = &priority
			}

			return ctx.withStore(func(store *queue.Store) error {
				id, err := store.DefineTask(cmd.Context(), data, count, prio)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&dataFlag, "data", "d", "", "Task data (read from stdin when omitted)")
	cmd.Flags().Int64VarP(&count, "count", "c", 0, "Number of repetitions to enqueue initially")
	cmd.Flags().Int64VarP(&priority, "priority", "p", 0, "Scheduling priority; lower runs sooner")
	return cmd
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show tasks with work remaining",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				out := cmd.OutOrStdout()
				if !verbose {
					ids, err := store.ListPending(cmd.Context())
					if err != nil {
						return err
					}
					for _, id := range ids {
						fmt.Fprintln(out, id)
					}
					return nil
				}

				tasks, err := store.PendingTasks(cmd.Context())
				if err != nil {
					return err
				}
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No pending tasks")
					return nil
				}
				rows := make([][]string, 0, len(tasks))
				for _, t := range tasks {
					rows = append(rows, []string{
						fmt.Sprint(t.ID),
						fmt.Sprint(t.Remaining),
						fmt.Sprint(t.Priority),
						printableData(t.Data),
					})
				}
				writeRows(out,
					[]string{"ID", "Remaining", "Priority", "Data"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignRight, alignLeft},
				)
				return nil
			})
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Informative output for interactive use")
	return cmd
}

func newGetDataCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get-data <task-id>",
		Short: "Print the data associated with a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				data, err := store.TaskData(cmd.Context(), id)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			})
		},
	}
}

func newGetCountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get-count <task-id>",
		Short: "Print the remaining repetition count for a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				remaining, err := store.Remaining(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), remaining)
				return nil
			})
		},
	}
}

func newGetPriorityCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get-priority <task-id>",
		Short: "Print a task's priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				priority, err := store.TaskPriority(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), priority)
				return nil
			})
		},
	}
}

func newSetPriorityCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-priority <task-id> <priority>",
		Short: "Change a task's priority; lower runs sooner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			priority, err := parseInt(args[1], "priority")
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				return store.SetPriority(cmd.Context(), id, priority)
			})
		},
	}
}

func newAddCountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-count <task-id> <delta>",
		Short: "Add repetitions to a task (delta may be negative)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0], "task")
			if err != nil {
				return err
			}
			delta, err := parseInt(args[1], "delta")
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *queue.Store) error {
				if err := store.AdjustCount(cmd.Context(), id, delta); err != nil {
					return err
				}
				remaining, err := store.Remaining(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), remaining)
				return nil
			})
		},
	}
}
