// Package errors defines the tagged failure variants the orchestrator core
// reports: Abort, HandlerFault, BuildError, LoaderError, NotificationFault,
// plus ValidationError for ambient configuration loading.
package errors

import (
	"fmt"
)

// Abort is raised by a handler to request cooperative termination (e.g. the
// user declined a prompt). The runner sets ABORTED and ERROR, skips the
// remaining if-success-gated work, and still runs cleanup stages.
type Abort struct {
	Message string
}

// NewAbort constructs an Abort failure.
func NewAbort(message string) error {
	return &Abort{Message: message}
}

func (e *Abort) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("aborted: %s", e.Message)
}

// HandlerFault wraps any other failure raised by a handler. Stack is the
// captured trace text (Go has no traceback objects; a formatted stack trace
// string is captured at the point of recovery instead).
type HandlerFault struct {
	Stage   string
	Method  string
	Stack   string
	Err     error
}

// NewHandlerFault constructs a HandlerFault.
func NewHandlerFault(stage, method, stack string, err error) error {
	return &HandlerFault{Stage: stage, Method: method, Stack: stack, Err: err}
}

func (e *HandlerFault) Error() string {
	if e == nil {
		return ""
	}
	if e.Stage != "" {
		return fmt.Sprintf("failed to execute stage '%s': %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("handler fault: %v", e.Err)
}

// Unwrap exposes the underlying cause.
func (e *HandlerFault) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildError is raised by the sequence builder for cyclic or over-iterated
// constraint resolution, or for a priority inversion under
// FAIL_ON_PRIO_OVERRIDE. Fatal: the sequence never started.
type BuildError struct {
	Message string
}

// NewBuildError constructs a BuildError.
func NewBuildError(message string) error {
	return &BuildError{Message: message}
}

func (e *BuildError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("sequence build error: %s", e.Message)
}

// LoaderError is raised by the plugin loader when a requested plugin group is
// not present on any root directory.
type LoaderError struct {
	MissingGroups []string
}

// NewLoaderError constructs a LoaderError naming the missing groups.
func NewLoaderError(missingGroups []string) error {
	return &LoaderError{MissingGroups: missingGroups}
}

func (e *LoaderError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("internal error, plugins %v are missing", e.MissingGroups)
}

// NotificationFault is raised when a notification listener itself fails
// during dispatch. It escalates to fatal.
type NotificationFault struct {
	Event string
	Err   error
}

// NewNotificationFault constructs a NotificationFault.
func NewNotificationFault(event string, err error) error {
	return &NotificationFault{Event: event, Err: err}
}

func (e *NotificationFault) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unexpected exception from notification %s: %v", e.Event, e.Err)
}

// Unwrap exposes the underlying cause.
func (e *NotificationFault) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures ambient configuration validation issues (not a
// spec failure kind; raised before a Context is even constructed).
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying cause.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PluginError indicates issues within plugin registration, loading, or
// provider slot assignment.
type PluginError struct {
	Plugin  string
	Message string
	Err     error
}

// NewPluginError constructs a PluginError for the given plugin or module name.
func NewPluginError(plugin string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &PluginError{Plugin: plugin, Message: message, Err: err}
}

func (e *PluginError) Error() string {
	if e == nil {
		return ""
	}
	if e.Plugin != "" {
		return fmt.Sprintf("plugin error [%s]: %s", e.Plugin, e.Message)
	}
	return fmt.Sprintf("plugin error: %s", e.Message)
}

// Unwrap exposes the underlying cause.
func (e *PluginError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
