package main

import (
	"github.com/spf13/cobra"
)

type rootFlags struct {
	verbose bool
	dryRun  bool
}

func newRootCmd(app *AppContext) *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "otopi",
		Short:         "otopi runs a pluggable stage-based installer sequence",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose (debug) logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "With run: build the sequence and print it without running")

	cmd.AddCommand(newRunCmd(flags, app))
	cmd.AddCommand(newDumpCmd(flags, app))
	cmd.AddCommand(newWatchCmd(flags, app))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
