package main

import (
	"context"

	"github.com/spf13/cobra"

	logginginfra "github.com/otopi-go/otopi/internal/infrastructure/logging"
	"github.com/otopi-go/otopi/internal/ports"
)

// AppContext bundles the long-lived services created at startup, mirroring
// the teacher's cmd/streamy.AppContext shape but scoped to the orchestrator
// rather than a pipeline use case.
type AppContext struct {
	Logger    ports.Logger
	Publisher ports.EventPublisher

	// levelLogger is the same underlying logger as Logger, held as its
	// concrete type so a command's resolved log level (config/--verbose,
	// parsed only once flags are read) can still adjust the level the
	// process was started with.
	levelLogger *logginginfra.Logger
}

// CommandContext returns the command's context (falling back to Background)
// together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger scoped to component.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}

// SetLevel adjusts the process logger's level once a command has resolved
// its effective log level from config and flags. A no-op if level is empty
// or the logger wasn't constructed with a level-adjustable backend.
func (a *AppContext) SetLevel(level string) error {
	if a == nil || a.levelLogger == nil || level == "" {
		return nil
	}
	return a.levelLogger.SetLevel(level)
}
