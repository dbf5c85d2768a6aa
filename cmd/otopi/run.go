package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/otopi-go/otopi/internal/audit"
	"github.com/otopi-go/otopi/internal/config"
	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/loader"
	"github.com/otopi-go/otopi/internal/orchestrator"
)

func newRunCmd(root *rootFlags, app *AppContext) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load plugins, build the stage sequence, and run it",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose
			opts.DryRun = root.dryRun

			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}

			return runOrchestrator(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an optional YAML configuration file")
	cmd.Flags().StringVar(&opts.PluginPath, "plugin-path", "", "Colon-separated plugin search roots, overrides the config file")
	cmd.Flags().StringSliceVar(&opts.PluginGroups, "plugin-group", nil, "Plugin group to load in addition to \"otopi\" (repeatable)")

	return cmd
}

// buildContext assembles an orchestrator.Context from an optional config
// file layered under explicit flags, which always win.
func buildContext(cmd *cobra.Command, app *AppContext, opts runOptions) (*orchestrator.Context, []string, *os.File, error) {
	var cfg config.OrchestratorConfig
	if opts.ConfigPath != "" {
		loaded, err := config.Load(opts.ConfigPath)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("loading config %s: %w", opts.ConfigPath, err)
		}
		cfg = *loaded
	}

	pluginPath := cfg.PluginPath
	if opts.PluginPath != "" {
		pluginPath = opts.PluginPath
	}
	groups := cfg.PluginGroups
	if len(opts.PluginGroups) > 0 {
		groups = opts.PluginGroups
	}

	logLevel := cfg.LogLevel
	if opts.Verbose {
		logLevel = "debug"
	}
	if err := app.SetLevel(logLevel); err != nil {
		return nil, nil, nil, fmt.Errorf("applying log level %q: %w", logLevel, err)
	}

	ctx, logger := app.CommandContext(cmd, "orchestrator")

	var trail *audit.Trail
	var auditFile *os.File
	if cfg.AuditPath != "" {
		f, err := os.OpenFile(cfg.AuditPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening audit trail %s: %w", cfg.AuditPath, err)
		}
		auditFile = f
		trail = audit.New(f)
	}

	for _, src := range cfg.GitSources {
		if _, err := loader.Materialize(ctx, loader.GitSource{URL: src.URL, Branch: src.Branch, Destination: src.Destination}); err != nil {
			return nil, nil, auditFile, fmt.Errorf("materializing git plugin source %s: %w", src.URL, err)
		}
	}

	roots, err := loader.ResolveRoots(ctx, pluginPath)
	if err != nil {
		return nil, nil, auditFile, fmt.Errorf("resolving plugin path: %w", err)
	}

	debugLevel := cfg.DebugLevel
	if envDebug := os.Getenv(environment.OTOPIDebugVar); envDebug != "" && debugLevel == 0 {
		if parsed, err := strconv.Atoi(envDebug); err == nil {
			debugLevel = parsed
		}
	}
	if opts.Verbose && debugLevel == 0 {
		debugLevel = 1
	}

	oc, err := orchestrator.New(orchestrator.Options{
		Logger:          logger,
		Publisher:       app.Publisher,
		Audit:           trail,
		PluginPath:      pluginPath,
		PluginGroups:    groups,
		DebugLevel:      debugLevel,
		RandomizeEvents: cfg.RandomizeEvents,
		StrictOrdering:  cfg.StrictOrdering,
	})
	if err != nil {
		return nil, nil, auditFile, err
	}

	if cfg.ExecutionDirectory != "" {
		oc.Environment().Set(string(environment.ExecutionDirectory), cfg.ExecutionDirectory)
	}
	if cfg.FailOnPrioOverride {
		oc.Environment().Set(string(environment.FailOnPrioOverride), true)
	}
	if len(cfg.SuppressEnvironmentKeys) > 0 {
		oc.Environment().Set(string(environment.SuppressEnvironmentKeys), cfg.SuppressEnvironmentKeys)
	}

	return oc, roots, auditFile, nil
}

func runOrchestrator(cmd *cobra.Command, app *AppContext, opts runOptions) error {
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

	if opts.DryRun {
		fmt.Fprint(cmd.OutOrStdout(), oc.DumpSequence())
		return nil
	}

	runErr := oc.RunSequence(ctx)
	code := oc.ExitCode()
	if code != 0 {
		if runErr != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), runErr)
		}
		os.Exit(code)
	}
	return runErr
}
