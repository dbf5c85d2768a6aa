package plugin

import (
	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/provider"
)

// Context is the surface a loaded plugin module's CreatePlugins entry point
// receives: enough of the orchestrator to register handlers, read and write
// shared environment state, resolve relative paths, and reach the four
// provider roles. internal/orchestrator.Context satisfies this interface;
// it is declared here (not there) so internal/loader can depend on it
// without importing internal/orchestrator, which would import loader back.
type Context interface {
	Registrar

	// Environment returns the shared Environment Store (§4.A).
	Environment() *environment.Store

	// Resolve joins file against the execution directory, per §4.I.
	Resolve(file string) string

	// Providers exposes the four single-slot provider roles (§4.E).
	Dialog() provider.Dialog
	Services() provider.Services
	Packager() provider.Packager
	Command() provider.Command

	// RegisterX replaces the corresponding provider slot, last write wins —
	// the Go analogue of the original's registerDialog/registerServices/
	// registerPackager/registerCommand context methods.
	RegisterDialog(provider.Dialog)
	RegisterServices(provider.Services)
	RegisterPackager(provider.Packager)
	RegisterCommand(provider.Command)
}

// CreatePlugins is the contract every loadable plugin module must export as
// a package-level function named "CreatePlugins", looked up via Go's
// plugin.Lookup (see internal/loader). It registers zero or more handlers
// against ctx and returns an error only for a fatal registration-time
// failure (a malformed handler, a missing required environment key).
type CreatePlugins func(ctx Context) error
