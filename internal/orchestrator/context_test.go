package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/notify"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/stage"
)

func TestNewSeedsBuiltinOtopiGroupHandlers(t *testing.T) {
	t.Parallel()

	c, err := New(Options{})
	require.NoError(t, err)
	require.Len(t, c.handlers, 3)
}

func TestBuildAndRunSequenceExecutesRegisteredHandler(t *testing.T) {
	t.Parallel()

	c, err := New(Options{})
	require.NoError(t, err)

	var ran bool
	c.RegisterEvent(plugin.EventSpec{
		Stage: stage.Setup,
		Method: func(context.Context) error {
			ran = true
			return nil
		},
	})

	require.NoError(t, c.BuildSequence())
	require.NoError(t, c.RunSequence(context.Background()))
	require.True(t, ran)
	require.Equal(t, 0, c.ExitCode())
}

func TestRunSequenceBeforeBuildIsAnError(t *testing.T) {
	t.Parallel()

	c, err := New(Options{})
	require.NoError(t, err)

	err = c.RunSequence(context.Background())
	require.Error(t, err)
}

func TestNotifyRoutesThroughBusAndSetsError(t *testing.T) {
	t.Parallel()

	c, err := New(Options{})
	require.NoError(t, err)

	var seen notify.Event
	c.RegisterNotificationListener(func(ctx context.Context, event notify.Event, env *environment.Store) error {
		seen = event
		return nil
	})

	require.NoError(t, c.Notify(context.Background(), notify.Error))
	require.Equal(t, notify.Error, seen)
}

func TestDumpSequenceAndEnvironmentProduceDiagnosticText(t *testing.T) {
	t.Parallel()

	c, err := New(Options{})
	require.NoError(t, err)
	require.NoError(t, c.BuildSequence())

	require.NotEmpty(t, c.DumpSequence())
	require.Contains(t, c.DumpSequence(), "INIT")
	require.Contains(t, c.DumpEnvironment(), "ERROR=bool:'False'")
}

func TestLoadPluginsFailsForMissingGroup(t *testing.T) {
	t.Parallel()

	c, err := New(Options{})
	require.NoError(t, err)

	root := t.TempDir()
	err = c.LoadPlugins(context.Background(), []string{root}, []string{"nonexistent"})
	require.Error(t, err)
}
