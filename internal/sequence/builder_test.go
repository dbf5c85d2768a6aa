package sequence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/stage"
)

func noop(context.Context) error { return nil }

func names(handlers []plugin.Handler) []string {
	out := make([]string, len(handlers))
	for i, h := range handlers {
		out[i] = h.Name
	}
	return out
}

// Scenario 1: priority alone decides order within a stage.
func TestBuildOrdersByPriorityWhenNoConstraints(t *testing.T) {
	t.Parallel()

	h1 := plugin.Handler{Owner: "p", MethodID: "p.H1", Name: "h1", Stage: stage.Init, Priority: stage.PriorityHigh, Method: noop}
	h2 := plugin.Handler{Owner: "p", MethodID: "p.H2", Name: "h2", Stage: stage.Init, Priority: stage.PriorityDefault, Method: noop}

	seq, err := Build([]plugin.Handler{h2, h1}, environment.New(), BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"h1", "h2"}, names(seq[stage.Init]))
}

// Scenario 2: a before constraint moves B ahead of A despite equal priority.
func TestBuildHonorsBeforeConstraint(t *testing.T) {
	t.Parallel()

	a := plugin.Handler{Owner: "p", MethodID: "p.A", Name: "a", Stage: stage.Setup, Priority: stage.PriorityDefault, Method: noop}
	b := plugin.Handler{Owner: "p", MethodID: "p.B", Name: "b", Stage: stage.Setup, Priority: stage.PriorityDefault, Before: []string{"a"}, Method: noop}

	seq, err := Build([]plugin.Handler{a, b}, environment.New(), BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, names(seq[stage.Setup]))
}

// Scenario 3: an after constraint forces a priority inversion, which is
// recorded but not fatal unless FAIL_ON_PRIO_OVERRIDE is set.
func TestBuildHonorsAfterConstraintAndRecordsInversion(t *testing.T) {
	t.Parallel()

	x := plugin.Handler{Owner: "p", MethodID: "p.X", Name: "x", Stage: stage.Misc, Priority: stage.PriorityDefault, Method: noop}
	y := plugin.Handler{Owner: "p", MethodID: "p.Y", Name: "y", Stage: stage.Misc, Priority: stage.PriorityHigh, After: []string{"x"}, Method: noop}

	var debugLines []string
	seq, err := Build([]plugin.Handler{y, x}, environment.New(), BuildOptions{
		DebugLog: func(s string) { debugLines = append(debugLines, s) },
	})
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, names(seq[stage.Misc]))
	require.NotEmpty(t, debugLines)
}

func TestBuildFailsFatallyOnInversionWhenConfigured(t *testing.T) {
	t.Parallel()

	x := plugin.Handler{Owner: "p", MethodID: "p.X", Name: "x", Stage: stage.Misc, Priority: stage.PriorityDefault, Method: noop}
	y := plugin.Handler{Owner: "p", MethodID: "p.Y", Name: "y", Stage: stage.Misc, Priority: stage.PriorityHigh, After: []string{"x"}, Method: noop}

	env := environment.New()
	env.Set(string(environment.FailOnPrioOverride), true)

	_, err := Build([]plugin.Handler{y, x}, env, BuildOptions{})
	require.Error(t, err)
}

func TestBuildSilentlyIgnoresUnknownConstraintTargets(t *testing.T) {
	t.Parallel()

	a := plugin.Handler{Owner: "p", MethodID: "p.A", Name: "a", Stage: stage.Setup, Before: []string{"does-not-exist"}, Method: noop}

	seq, err := Build([]plugin.Handler{a}, environment.New(), BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, names(seq[stage.Setup]))
}

func TestBuildBucketsByStagePreservingOrder(t *testing.T) {
	t.Parallel()

	a := plugin.Handler{Owner: "p", MethodID: "p.A", Name: "a", Stage: stage.Init, Method: noop}
	b := plugin.Handler{Owner: "p", MethodID: "p.B", Name: "b", Stage: stage.Setup, Method: noop}

	seq, err := Build([]plugin.Handler{a, b}, environment.New(), BuildOptions{})
	require.NoError(t, err)
	require.Len(t, seq[stage.Init], 1)
	require.Len(t, seq[stage.Setup], 1)
}

func TestBuildStrictOrderingDetectsCycle(t *testing.T) {
	t.Parallel()

	a := plugin.Handler{Owner: "p", MethodID: "p.A", Name: "a", Stage: stage.Setup, Before: []string{"b"}, Method: noop}
	b := plugin.Handler{Owner: "p", MethodID: "p.B", Name: "b", Stage: stage.Setup, Before: []string{"a"}, Method: noop}

	_, err := Build([]plugin.Handler{a, b}, environment.New(), BuildOptions{StrictOrdering: true})
	require.Error(t, err)
}

func TestBuildTieBreaksByMethodIDWhenPriorityEqual(t *testing.T) {
	t.Parallel()

	a := plugin.Handler{Owner: "p", MethodID: "p.zzz", Name: "a", Stage: stage.Init, Method: noop}
	b := plugin.Handler{Owner: "p", MethodID: "p.aaa", Name: "b", Stage: stage.Init, Method: noop}

	seq, err := Build([]plugin.Handler{a, b}, environment.New(), BuildOptions{})
	require.NoError(t, err)
	require.Equal(t, []string{"b", "a"}, names(seq[stage.Init]))
}
