package plugin

import (
	"context"

	"github.com/otopi-go/otopi/internal/stage"
)

// Handler is one unit of work a plugin binds to a stage (§3.2, Handler
// Metadata). The sequence builder sorts handlers within a stage by Priority,
// then repairs the order against Before/After, and the runner invokes
// Method in the resulting order, skipping any whose Condition returns
// false.
type Handler struct {
	// Owner is the synthesized dotted module name of the plugin that
	// registered this handler (internal/loader assigns it); used for
	// diagnostics and HandlerFault.Method.
	Owner string
	// MethodID is the fully-qualified identity of the bound method itself
	// — module plus Go function name, recovered via reflection over
	// Method at registration time (runtime.FuncForPC). It is the builder's
	// tie-break sort key and is unrelated to Name: two handlers can share
	// an empty Name (the common case — most handlers are never a
	// before/after target) while still sorting deterministically by
	// MethodID.
	MethodID string
	// Name symbolically identifies this handler for Before/After
	// constraints from other handlers. It need not be globally unique in
	// the loaded set — duplicates are treated as additional join points,
	// matching the original's permissive event-method naming.
	Name string
	// Stage is the stage this handler executes within.
	Stage stage.Stage
	// Priority is the tie-break-then-priority sort key; lower runs
	// earlier. Defaults to stage.PriorityDefault.
	Priority int
	// Before lists handler Names that must run after this one within the
	// same stage.
	Before []string
	// After lists handler Names that must run before this one within the
	// same stage.
	After []string
	// Condition, if non-nil, is evaluated immediately before Method; a
	// false result skips Method without treating the handler as failed.
	Condition func() bool
	// Method performs the handler's work. A returned error is classified
	// by the runner: errors.Abort requests cooperative termination,
	// anything else becomes a HandlerFault.
	Method func(ctx context.Context) error
}

// Runnable reports whether the handler's Condition allows Method to run.
// A nil Condition always allows.
func (h Handler) Runnable() bool {
	return h.Condition == nil || h.Condition()
}
