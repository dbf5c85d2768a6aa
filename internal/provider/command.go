package provider

import (
	"fmt"
	"sync"
)

// Command is the resolved-executable-path provider (§4.E). Plugins enumerate
// the commands they depend on and resolve each to an absolute path once,
// early in the sequence (typically at PROGRAMS and again at MISC, to
// re-detect anything a PACKAGES-stage install just made available).
type Command interface {
	// Enum returns every command name currently tracked, in the order
	// first enumerated.
	Enum() []string
	// Get returns the resolved path for name. An unresolved optional
	// command returns ("", nil) — the caller decides what to do about a
	// still-missing optional command. An unresolved required command
	// (optional == false) returns ("", ErrCommandRequired).
	Get(name string, optional bool) (path string, err error)
	// Set records the resolved path for name, first enumerating it if
	// necessary.
	Set(name, path string)
}

// ErrCommandRequired is returned by Command.Get when a required
// (optional == false) command has not been resolved to a path.
type ErrCommandRequired struct {
	Name string
}

func (e ErrCommandRequired) Error() string {
	return fmt.Sprintf("required command %q was not resolved to a path", e.Name)
}

// CommandBase is the concrete, shared-state Command implementation. Unlike
// Dialog/Services/Packager, Command has real state even in its "base" form
// — the original's CommandBase is the only provider mixin the system
// Command plugin itself subclasses, so the base behavior and the
// registered behavior are the same object.
type CommandBase struct {
	mu    sync.Mutex
	order []string
	paths map[string]string
}

// NewCommandBase returns an empty CommandBase.
func NewCommandBase() *CommandBase {
	return &CommandBase{paths: make(map[string]string)}
}

// Enum implements Command.
func (c *CommandBase) Enum() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Get implements Command.
func (c *CommandBase) Get(name string, optional bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	path, tracked := c.paths[name]
	if !tracked || path == "" {
		if !optional {
			return "", ErrCommandRequired{Name: name}
		}
		return "", nil
	}
	return path, nil
}

// Set implements Command.
func (c *CommandBase) Set(name, path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enumLocked(name)
	c.paths[name] = path
}

func (c *CommandBase) enumLocked(name string) {
	if _, ok := c.paths[name]; ok {
		return
	}
	c.order = append(c.order, name)
	c.paths[name] = ""
}
