package plugin

import (
	"context"
	"reflect"
	"runtime"

	"github.com/otopi-go/otopi/internal/stage"
)

// EventSpec is the argument to RegisterEvent: the declarative description of
// one handler, supplied by a plugin's constructor. This is the Go
// replacement for the original's runtime method-introspection — a plugin
// declares its handlers explicitly instead of annotating methods a loader
// would otherwise have to discover by reflection.
type EventSpec struct {
	Stage     stage.Stage
	Priority  int
	Name      string
	Before    []string
	After     []string
	Condition func() bool
	Method    func(ctx context.Context) error
}

// Registrar is the subset of plugin-construction-time API concerned purely
// with declaring handlers; Context embeds it alongside environment/provider
// access. internal/loader hands a plugin module's CreatePlugins a Context
// whose RegisterEvent routes through a per-module Collector, so Owner
// attribution never depends on the plugin behaving itself.
type Registrar interface {
	// RegisterEvent records one handler contributed by the calling
	// plugin. Owner is filled in by the loader from the plugin's
	// synthesized module name.
	RegisterEvent(spec EventSpec)
}

// Collector is a minimal Registrar that simply appends every registered
// spec to a slice, converting each into a Handler once the owning plugin's
// module name is known. internal/loader uses this to gather a plugin's
// contributed handlers without otherwise coupling to internal/orchestrator.
type Collector struct {
	Owner string
	specs []EventSpec
}

// NewCollector returns a Collector that will stamp every collected Handler
// with the given owner module name.
func NewCollector(owner string) *Collector {
	return &Collector{Owner: owner}
}

// RegisterEvent implements Registrar.
func (c *Collector) RegisterEvent(spec EventSpec) {
	c.specs = append(c.specs, spec)
}

// Handlers converts every collected EventSpec into a Handler, stamping
// Owner (§3.2: priority defaults to stage.PriorityDefault via the zero
// value, name to "", before/after to nil, condition to always-true via a
// nil Condition).
func (c *Collector) Handlers() []Handler {
	out := make([]Handler, 0, len(c.specs))
	for _, s := range c.specs {
		out = append(out, Handler{
			Owner:     c.Owner,
			MethodID:  c.Owner + "." + methodName(s.Method),
			Name:      s.Name,
			Stage:     s.Stage,
			Priority:  s.Priority,
			Before:    s.Before,
			After:     s.After,
			Condition: s.Condition,
			Method:    s.Method,
		})
	}
	return out
}

// methodName recovers the fully-qualified Go function name bound to a
// handler's Method, the closest analog to the original's
// "module.Class.method" reflection-derived tie-break key.
func methodName(method func(ctx context.Context) error) string {
	if method == nil {
		return "<nil>"
	}
	if fn := runtime.FuncForPC(reflect.ValueOf(method).Pointer()); fn != nil {
		return fn.Name()
	}
	return "<unknown>"
}
