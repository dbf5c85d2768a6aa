// Package notify implements the Notification Bus (§4.H): an ordered list of
// listeners invoked on ERROR and REEXEC events. A listener that itself fails
// during dispatch escalates to a fatal NotificationFault rather than being
// swallowed — the same behavior the runner affords handler faults would mask
// a notification subsystem bug.
package notify

import (
	"context"

	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/ports"
	apperrors "github.com/otopi-go/otopi/pkg/errors"
)

// Event identifies a notification kind. The set is closed: only Error and
// Reexec exist, mirroring the two events a plugin can observe without
// participating in the stage sequence itself.
type Event string

const (
	// Error fires each time a handler fault or abort is captured and sets ERROR.
	Error Event = "ERROR"
	// Reexec fires immediately before the orchestrator re-executes itself
	// (e.g. after installing a package that must take effect via restart).
	Reexec Event = "REEXEC"
)

// Listener receives a fired event. It may read but must not mutate the
// environment store concurrently with the runner — dispatch happens on the
// runner's own goroutine.
type Listener func(ctx context.Context, event Event, env *environment.Store) error

// Bus is the ordered notification listener list. The zero value is ready to
// use.
type Bus struct {
	logger    ports.Logger
	listeners []Listener
}

// NewBus returns an empty Bus. logger may be nil, in which case dispatch
// failures are only surfaced as the returned error.
func NewBus(logger ports.Logger) *Bus {
	return &Bus{logger: logger}
}

// Register appends a listener to the end of the dispatch order. Registration
// order is significant: listeners observe events in the order they were
// registered, matching the original's append-only notification list.
func (b *Bus) Register(l Listener) {
	if l == nil {
		return
	}
	b.listeners = append(b.listeners, l)
}

// Fire dispatches event to every registered listener in order. If a listener
// returns an error, the environment's ERROR key is set (via env, which the
// caller must have on hand — the bus itself holds no environment reference
// outside of a Fire call) and a NotificationFault is returned immediately;
// remaining listeners are not invoked, matching the original's re-raise
// semantics.
func (b *Bus) Fire(ctx context.Context, event Event, env *environment.Store) error {
	for _, l := range b.listeners {
		if err := l(ctx, event, env); err != nil {
			env.Set(string(environment.Error), true)
			if b.logger != nil {
				b.logger.Error(ctx, "unexpected exception from notification", "event", string(event), "error", err)
			}
			return apperrors.NewNotificationFault(string(event), err)
		}
	}
	return nil
}

// Listeners reports how many listeners are currently registered, for
// diagnostics and tests.
func (b *Bus) Listeners() int {
	return len(b.listeners)
}
