// Package provider defines the four single-slot roles a Context exposes to
// every plugin: Dialog, Services, Packager, and Command (§4.E, Provider
// Registry). Each role has a Base no-op implementation installed at
// construction time; a plugin may call the matching Register* method to
// replace the slot — last write wins, matching the original's
// registerDialog/registerServices/registerPackager/registerCommand calls.
package provider

import "context"

// Dialog is the user-interaction provider: yes/no confirmations and
// informational notes. DialogBase answers every prompt with its default, making a
// non-interactive run always proceed without blocking.
type Dialog interface {
	Confirm(ctx context.Context, prompt string, defaultYes bool) (bool, error)
	Note(ctx context.Context, message string)
}

// DialogBase is the no-op Dialog installed before any plugin registers one.
type DialogBase struct{}

// Confirm returns defaultYes without prompting.
func (DialogBase) Confirm(_ context.Context, _ string, defaultYes bool) (bool, error) {
	return defaultYes, nil
}

// Note discards the message.
func (DialogBase) Note(context.Context, string) {}

// Services is the process/service-manager abstraction (start/stop/status a
// system service). ServicesBase reports every service as stopped and treats
// Start and Stop as no-ops.
type Services interface {
	State(ctx context.Context, name string) (running bool, err error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
}

// ServicesBase is the no-op Services installed before any plugin registers
// one.
type ServicesBase struct{}

// State reports every service as stopped.
func (ServicesBase) State(context.Context, string) (bool, error) { return false, nil }

// Start is a no-op.
func (ServicesBase) Start(context.Context, string) error { return nil }

// Stop is a no-op.
func (ServicesBase) Stop(context.Context, string) error { return nil }

// Packager is the OS package manager abstraction (install/remove/query).
// PackagerBase reports every package as already installed, matching the
// original's behavior of never blocking a dry-run plugin set that has no
// concrete packager registered.
type Packager interface {
	Installed(ctx context.Context, name string) (bool, error)
	Install(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

// PackagerBase is the no-op Packager installed before any plugin registers
// one.
type PackagerBase struct{}

// Installed reports every package as already present.
func (PackagerBase) Installed(context.Context, string) (bool, error) { return true, nil }

// Install is a no-op.
func (PackagerBase) Install(context.Context, string) error { return nil }

// Remove is a no-op.
func (PackagerBase) Remove(context.Context, string) error { return nil }
