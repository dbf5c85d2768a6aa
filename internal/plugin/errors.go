package plugin

import (
	"fmt"
	"strings"
)

// ErrCircularDependency is returned when a cycle exists among loaded plugin
// modules' declared PluginMetadata.Dependencies — a different graph than the
// handler before/after ordering internal/sequence's builder checks; this one
// is module-to-module, declared once per module rather than per handler.
type ErrCircularDependency struct {
	Cycle []string
}

func (e ErrCircularDependency) Error() string {
	if len(e.Cycle) == 0 {
		return "circular plugin module dependency detected"
	}
	sequence := append(append([]string{}, e.Cycle...), e.Cycle[0])
	return fmt.Sprintf(
		"circular plugin module dependency detected: %s",
		strings.Join(sequence, " -> "),
	)
}

// ErrMissingDependency is returned when a loaded module declares a dependency
// on a module name that was never loaded under any requested plugin group.
type ErrMissingDependency struct {
	Plugin     string
	Dependency string
}

func (e ErrMissingDependency) Error() string {
	return fmt.Sprintf(
		"plugin module '%s' declares dependency '%s' which was never loaded",
		e.Plugin,
		e.Dependency,
	)
}
