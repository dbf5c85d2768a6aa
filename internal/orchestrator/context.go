// Package orchestrator ties the Environment Store, Provider Registry,
// Sequence Builder/Runner, Notification Bus, and Path Resolver into the
// single Context object a CLI entry point drives. Grounded on
// original_source/context.py's Context class as a whole (constructor seeding
// environment defaults and base providers, registerPlugin, notify,
// buildSequence, runSequence, loadPlugins, dumpSequence, dumpEnvironment).
package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/otopi-go/otopi/internal/audit"
	"github.com/otopi-go/otopi/internal/builtinplugins/system"
	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/loader"
	"github.com/otopi-go/otopi/internal/model"
	"github.com/otopi-go/otopi/internal/notify"
	"github.com/otopi-go/otopi/internal/pathresolve"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/ports"
	"github.com/otopi-go/otopi/internal/provider"
	"github.com/otopi-go/otopi/internal/sequence"
	"github.com/otopi-go/otopi/internal/stage"
	apperrors "github.com/otopi-go/otopi/pkg/errors"
)

var _ plugin.Context = (*Context)(nil)

// Options configures a new Context. Zero values are all meaningful defaults.
type Options struct {
	Logger          ports.Logger
	Publisher       ports.EventPublisher
	Audit           *audit.Trail
	PluginPath      string
	PluginGroups    []string
	DebugLevel      int
	RandomizeEvents bool
	StrictOrdering  bool
}

// Context is the orchestrator core: everything a loaded plugin module or a
// CLI command needs to load plugins, build and run the handler sequence, and
// inspect the resulting state.
type Context struct {
	env       *environment.Store
	providers *provider.Registry
	bus       *notify.Bus
	logger    ports.Logger
	publisher ports.EventPublisher

	handlers []plugin.Handler
	seq      sequence.Sequence
	trail    *audit.Trail

	strictOrdering bool
}

// New constructs a Context with environment defaults seeded and the
// always-loaded "otopi" system plugin group registered in-process (it ships
// compiled into the binary, unlike PLUGIN_PATH-discovered groups, so it
// never goes through internal/loader's dynamic plugin.Open).
func New(opts Options) (*Context, error) {
	groups := append([]string{environment.DefaultPluginGroups}, opts.PluginGroups...)
	env := environment.NewDefault(stage.PriorityLast, model.ExitCodeSuccess, opts.PluginPath, strings.Join(groups, ":"), opts.DebugLevel)
	env.Set(string(environment.RandomizeEvents), opts.RandomizeEvents)

	c := &Context{
		env:            env,
		providers:      provider.NewRegistry(),
		bus:            notify.NewBus(opts.Logger),
		logger:         opts.Logger,
		publisher:      opts.Publisher,
		trail:          opts.Audit,
		strictOrdering: opts.StrictOrdering,
	}

	if err := system.CreatePlugins(c); err != nil {
		return nil, fmt.Errorf("registering built-in otopi plugin group: %w", err)
	}
	return c, nil
}

// Environment implements plugin.Context.
func (c *Context) Environment() *environment.Store { return c.env }

// Resolve implements plugin.Context (§4.I).
func (c *Context) Resolve(file string) string {
	return pathresolve.Resolve(c.env.GetString(string(environment.ExecutionDirectory)), file)
}

// Dialog implements plugin.Context.
func (c *Context) Dialog() provider.Dialog { return c.providers.Dialog() }

// Services implements plugin.Context.
func (c *Context) Services() provider.Services { return c.providers.Services() }

// Packager implements plugin.Context.
func (c *Context) Packager() provider.Packager { return c.providers.Packager() }

// Command implements plugin.Context.
func (c *Context) Command() provider.Command { return c.providers.Command() }

// RegisterDialog implements plugin.Context.
func (c *Context) RegisterDialog(d provider.Dialog) { c.providers.RegisterDialog(d) }

// RegisterServices implements plugin.Context.
func (c *Context) RegisterServices(s provider.Services) { c.providers.RegisterServices(s) }

// RegisterPackager implements plugin.Context.
func (c *Context) RegisterPackager(p provider.Packager) { c.providers.RegisterPackager(p) }

// RegisterCommand implements plugin.Context.
func (c *Context) RegisterCommand(cmd provider.Command) { c.providers.RegisterCommand(cmd) }

// RegisterEvent implements plugin.Context for handlers registered directly
// against the Context rather than through a loaded plugin module (the
// built-in "otopi" group, or a CLI-embedded handler); Owner is "<context>".
func (c *Context) RegisterEvent(spec plugin.EventSpec) {
	collector := plugin.NewCollector("<context>")
	collector.RegisterEvent(spec)
	c.handlers = append(c.handlers, collector.Handlers()...)
}

// Notify fires event (ERROR or REEXEC) through the Notification Bus (§4.H).
func (c *Context) Notify(ctx context.Context, event notify.Event) error {
	return c.bus.Fire(ctx, event, c.env)
}

// RegisterNotificationListener adds l to the bus, for plugins that want to
// observe ERROR/REEXEC rather than just raise failures.
func (c *Context) RegisterNotificationListener(l notify.Listener) {
	c.bus.Register(l)
}

// LoadPlugins walks roots for the requested plugin groups (§4.D) and adds
// every handler discovered to the Context's accumulated handler set. The
// always-loaded "otopi" group handlers registered at New are already present
// and are never re-requested here.
func (c *Context) LoadPlugins(goctx context.Context, roots []string, requestedGroups []string) error {
	found, err := loader.Load(goctx, c, roots, requestedGroups, c.logger)
	if err != nil {
		return err
	}
	c.handlers = append(c.handlers, found...)
	return nil
}

// BuildSequence runs the Sequence Builder (§4.F) over every handler
// registered so far (built-in plus every loaded plugin) and stores the
// result for RunSequence/DumpSequence.
func (c *Context) BuildSequence() error {
	var debugLog func(string)
	if c.logger != nil {
		debugLog = func(msg string) { c.logger.Debug(context.Background(), msg) }
	}
	seq, err := sequence.Build(c.handlers, c.env, sequence.BuildOptions{
		StrictOrdering: c.strictOrdering,
		DebugLog:       debugLog,
	})
	if err != nil {
		return err
	}
	c.seq = seq
	return nil
}

// RunSequence executes the built Sequence (§4.G). BuildSequence must have
// run first; calling RunSequence before a successful BuildSequence is a
// programming error and returns a BuildError.
func (c *Context) RunSequence(ctx context.Context) error {
	if c.seq == nil {
		return apperrors.NewBuildError("sequence not built")
	}
	return sequence.Run(ctx, c.seq, c.env, sequence.RunnerOptions{
		Logger:    c.logger,
		Bus:       c.bus,
		Publisher: c.publisher,
		Audit:     c.trail,
	})
}

// ExitCode computes the process exit code from EXIT_CODE's highest-priority
// candidate, letting handlers that raised the process's severity (e.g. a
// HandlerFault appending an ExitCodeEntry at high priority) win over the
// success default seeded at construction.
func (c *Context) ExitCode() int {
	entries, _ := c.env.Get(string(environment.ExitCode), nil).([]model.ExitCodeEntry)
	return model.HighestPriority(entries)
}

// DumpSequence renders the built Sequence as stage-by-stage handler listing,
// for `otopi dump` diagnostics.
func (c *Context) DumpSequence() string {
	if c.seq == nil {
		return ""
	}
	var b strings.Builder
	for _, st := range stage.Ordered() {
		handlers, ok := c.seq[st]
		if !ok || len(handlers) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s\n", st)
		for _, h := range handlers {
			fmt.Fprintf(&b, "  priority=%-5d %s\n", h.Priority, h.MethodID)
		}
	}
	return b.String()
}

// DumpEnvironment renders every environment key and its displayable value,
// redacting suppressed keys, in sorted key order.
func (c *Context) DumpEnvironment() string {
	var b strings.Builder
	for _, k := range c.env.Keys() {
		fmt.Fprintf(&b, "%s=%s:'%s'\n", k, c.env.TypeName(k), c.env.DisplayValue(k))
	}
	return b.String()
}
