package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd(root *rootFlags, app *AppContext) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Load plugins, build the stage sequence, and print it and the environment without running",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose

			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}

			oc, roots, auditFile, err := buildContext(cmd, app, opts)
			if auditFile != nil {
				defer auditFile.Close()
			}
			if err != nil {
				return err
			}

			ctx, _ := app.CommandContext(cmd, "orchestrator")
			if err := oc.LoadPlugins(ctx, roots, opts.PluginGroups); err != nil {
				return err
			}
			if err := oc.BuildSequence(); err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), oc.DumpSequence())
			fmt.Fprintln(cmd.OutOrStdout(), "---")
			fmt.Fprint(cmd.OutOrStdout(), oc.DumpEnvironment())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an optional YAML configuration file")
	cmd.Flags().StringVar(&opts.PluginPath, "plugin-path", "", "Colon-separated plugin search roots, overrides the config file")
	cmd.Flags().StringSliceVar(&opts.PluginGroups, "plugin-group", nil, "Plugin group to load in addition to \"otopi\" (repeatable)")

	return cmd
}
