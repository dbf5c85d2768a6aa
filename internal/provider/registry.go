package provider

// Registry holds the four single-slot provider roles for one orchestrator
// Context. Unlike the teacher's package-level plugin registry, this is
// deliberately an instance, not a global — a process may construct more
// than one Context (concurrent test runs, nested invocations), and each
// must see its own providers.
type Registry struct {
	dialog   Dialog
	services Services
	packager Packager
	command  Command
}

// NewRegistry returns a Registry pre-seeded with every role's no-op Base
// implementation, matching the original Context constructor's
// registerDialog(DialogBase())/registerServices(...)/registerPackager(...)/
// registerCommand(...) calls.
func NewRegistry() *Registry {
	return &Registry{
		dialog:   DialogBase{},
		services: ServicesBase{},
		packager: PackagerBase{},
		command:  NewCommandBase(),
	}
}

// Dialog returns the currently registered Dialog provider.
func (r *Registry) Dialog() Dialog { return r.dialog }

// RegisterDialog replaces the Dialog slot. Last write wins.
func (r *Registry) RegisterDialog(d Dialog) { r.dialog = d }

// Services returns the currently registered Services provider.
func (r *Registry) Services() Services { return r.services }

// RegisterServices replaces the Services slot. Last write wins.
func (r *Registry) RegisterServices(s Services) { r.services = s }

// Packager returns the currently registered Packager provider.
func (r *Registry) Packager() Packager { return r.packager }

// RegisterPackager replaces the Packager slot. Last write wins.
func (r *Registry) RegisterPackager(p Packager) { r.packager = p }

// Command returns the currently registered Command provider.
func (r *Registry) Command() Command { return r.command }

// RegisterCommand replaces the Command slot. Last write wins.
func (r *Registry) RegisterCommand(c Command) { r.command = c }
