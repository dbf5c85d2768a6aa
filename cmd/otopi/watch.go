package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	eventsinfra "github.com/otopi-go/otopi/internal/infrastructure/events"
	"github.com/otopi-go/otopi/internal/ports"
	"github.com/otopi-go/otopi/internal/stage"
	"github.com/otopi-go/otopi/internal/tui"
)

func newWatchCmd(root *rootFlags, app *AppContext) *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the sequence with a live stage-progress dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Verbose = root.verbose

			if err := validateConfigPath(opts.ConfigPath); err != nil {
				return err
			}

			return runWatch(cmd, app, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to an optional YAML configuration file")
	cmd.Flags().StringVar(&opts.PluginPath, "plugin-path", "", "Colon-separated plugin search roots, overrides the config file")
	cmd.Flags().StringSliceVar(&opts.PluginGroups, "plugin-group", nil, "Plugin group to load in addition to \"otopi\" (repeatable)")

	return cmd
}

func runWatch(cmd *cobra.Command, app *AppContext, opts runOptions) error {
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

	nonInteractive := !term.IsTerminal(int(os.Stdout.Fd()))
	modelState := tui.NewModel()

	var program *tea.Program
	var programErr error
	done := make(chan struct{})

	if !nonInteractive {
		program = tea.NewProgram(modelState)
		go func() {
			_, programErr = program.Run()
			close(done)
		}()
	}

	if pub, ok := app.Publisher.(*eventsinfra.LoggingPublisher); ok {
		send := func(msg tea.Msg) {
			if program != nil {
				program.Send(msg)
			}
		}
		subscribe(pub, ports.EventStageStarted, func(st stage.Stage) tea.Msg { return tui.StageStartedMsg{Stage: st} }, send)
		subscribe(pub, ports.EventStageCompleted, func(st stage.Stage) tea.Msg { return tui.StageCompletedMsg{Stage: st} }, send)
		subscribe(pub, ports.EventStageSkipped, func(st stage.Stage) tea.Msg { return tui.StageSkippedMsg{Stage: st} }, send)
	}

	runErr := oc.RunSequence(ctx)

	if program != nil {
		program.Send(tui.DoneMsg{Err: runErr})
		<-done
		if programErr != nil {
			return programErr
		}
	} else {
		updated, _ := modelState.Update(tui.DoneMsg{Err: runErr})
		fmt.Fprintln(cmd.OutOrStdout(), updated.(tui.Model).View())
	}

	if code := oc.ExitCode(); code != 0 {
		os.Exit(code)
	}
	return runErr
}

// subscribe wires one diagnostic event type through pub into a tea.Msg sent
// to the dashboard program, extracting the stage name from the event's
// "stage" payload key (internal/sequence.stageEvent's shape).
func subscribe(pub *eventsinfra.LoggingPublisher, eventType string, toMsg func(stage.Stage) tea.Msg, send func(tea.Msg)) {
	_, _ = pub.Subscribe(eventType, func(_ context.Context, event ports.DomainEvent) error {
		payload, ok := event.Payload().(map[string]interface{})
		if !ok {
			return nil
		}
		name, _ := payload["stage"].(string)
		send(toMsg(stage.Stage(name)))
		return nil
	})
}
