package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// exitNoWork lets scripts distinguish an empty queue from a real error.
const exitNoWork = 2

type exitStatusError struct {
	code int
}

func (e exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var dbFlag string

	ctx := newCommandContext(&configFlag, &dbFlag)

	rootCmd := &cobra.Command{
		Use:           "workq",
		Short:         "Command-line work-stealing scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Queue database path (overrides config)")

	rootCmd.AddCommand(newInitCommand(ctx))
	rootCmd.AddCommand(newCreateCommand(ctx))
	rootCmd.AddCommand(newListCommand(ctx))
	rootCmd.AddCommand(newGetDataCommand(ctx))
	rootCmd.AddCommand(newGetCountCommand(ctx))
	rootCmd.AddCommand(newGetPriorityCommand(ctx))
	rootCmd.AddCommand(newSetPriorityCommand(ctx))
	rootCmd.AddCommand(newAddCountCommand(ctx))
	rootCmd.AddCommand(newTakeCommand(ctx))
	rootCmd.AddCommand(newLogStartCommand(ctx))
	rootCmd.AddCommand(newLogFinishCommand(ctx))
	rootCmd.AddCommand(newJobsCommand(ctx))
	rootCmd.AddCommand(newJobCommand(ctx))
	rootCmd.AddCommand(newMonitorCommand(ctx))

	return rootCmd
}
