package errors

import (
	stdErrors "errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAbortRendersMessage(t *testing.T) {
	t.Parallel()

	err := NewAbort("user declined")

	var abortErr *Abort
	require.ErrorAs(t, err, &abortErr)
	require.Contains(t, err.Error(), "user declined")
}

func TestHandlerFaultWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("boom")
	err := NewHandlerFault("SETUP", "plugins.otopi.demo.Plugin.run", "stack trace", underlying)

	var fault *HandlerFault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, "SETUP", fault.Stage)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "SETUP")
}

func TestBuildErrorRendersMessage(t *testing.T) {
	t.Parallel()

	err := NewBuildError("sequence build loop detected")
	require.Contains(t, err.Error(), "sequence build loop detected")
}

func TestLoaderErrorNamesMissingGroups(t *testing.T) {
	t.Parallel()

	err := NewLoaderError([]string{"vendor-extra"})
	require.Contains(t, err.Error(), "vendor-extra")
}

func TestNotificationFaultWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("listener panicked")
	err := NewNotificationFault("ERROR", underlying)

	var fault *NotificationFault
	require.ErrorAs(t, err, &fault)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestValidationErrorIncludesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("plugin_path", "must not be empty", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "plugin_path", validationErr.Field)
}

func TestPluginErrorIncludesPluginName(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("not supported")
	err := NewPluginError("command", underlying)

	var pluginErr *PluginError
	require.ErrorAs(t, err, &pluginErr)
	require.Equal(t, "command", pluginErr.Plugin)
	require.True(t, stdErrors.Is(err, underlying))
}
