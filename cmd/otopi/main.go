// Command otopi drives the orchestrator Context from the command line: load
// an optional YAML config, resolve PLUGIN_PATH roots (including git+ remote
// sources), build the handler sequence, and run it.
package main

import (
	"context"
	"fmt"
	"os"

	eventsinfra "github.com/otopi-go/otopi/internal/infrastructure/events"
	logginginfra "github.com/otopi-go/otopi/internal/infrastructure/logging"
	cliLogging "github.com/otopi-go/otopi/internal/logger"
	"github.com/otopi-go/otopi/internal/ports"
)

func main() {
	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Layer:     "cli",
		Component: "otopi",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	// cliLogger is a separate, fixed-arity logger (internal/logger) for the
	// two process-level banner/failure messages below, which don't need
	// structured key/value fields, just a message and, on failure, the
	// error that caused it. appLogger (and its derived component loggers)
	// remains the one every command/orchestrator call site logs through.
	cliLogger, err := cliLogging.New(cliLogging.Options{Level: "info", Layer: "cli", Component: "otopi"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create cli logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := ports.GenerateCorrelationID()
	ctx := ports.WithCorrelationID(context.Background(), correlationID)

	app := &AppContext{
		Logger:      appLogger,
		Publisher:   eventsinfra.NewLoggingPublisher(appLogger.With("component", "event_publisher")),
		levelLogger: appLogger,
	}

	rootCmd := newRootCmd(app)
	cliLogger.WithFields(map[string]any{"pid": os.Getpid()}).Info("starting otopi command")

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cliLogger.Error(err, "otopi command failed")
		os.Exit(1)
	}
}
