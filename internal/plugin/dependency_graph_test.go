package plugin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDependencyGraphDetectCycles(t *testing.T) {
	graph := NewDependencyGraph()
	graph.AddEdge("otopi.plugins.myapp.a", "otopi.plugins.myapp.b")
	graph.AddEdge("otopi.plugins.myapp.b", "otopi.plugins.myapp.c")
	graph.AddEdge("otopi.plugins.myapp.c", "otopi.plugins.myapp.a")

	cycle, err := graph.DetectCycles()
	require.NoError(t, err)
	require.Len(t, cycle, 3)

	acyclic := NewDependencyGraph()
	acyclic.AddEdge("otopi.plugins.myapp.a", "otopi.plugins.myapp.b")
	acyclic.AddEdge("otopi.plugins.myapp.b", "otopi.plugins.myapp.c")

	none, err := acyclic.DetectCycles()
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestDependencyGraphNodesAndUtilities(t *testing.T) {
	graph := NewDependencyGraph()
	graph.AddEdge("myapp.web", "myapp.db")
	graph.AddEdge("myapp.web", "myapp.cache")
	graph.AddEdge("myapp.cache", "myapp.db")

	require.Equal(t, []string{"myapp.cache", "myapp.db", "myapp.web"}, graph.Nodes())

	deps := graph.GetDependencies("myapp.web")
	require.Equal(t, []string{"myapp.cache", "myapp.db"}, deps)

	dependents := graph.GetDependents("myapp.db")
	require.Equal(t, []string{"myapp.cache", "myapp.web"}, dependents)

	require.True(t, graph.HasNode("myapp.db"))
	require.False(t, graph.HasNode("myapp.missing"))
}

func TestErrCircularDependencyMessageNamesCycle(t *testing.T) {
	err := ErrCircularDependency{Cycle: []string{"a", "b", "c"}}
	require.Contains(t, err.Error(), "a -> b -> c -> a")
}

func TestErrMissingDependencyMessageNamesBoth(t *testing.T) {
	err := ErrMissingDependency{Plugin: "myapp.web", Dependency: "myapp.db"}
	require.Contains(t, err.Error(), "myapp.web")
	require.Contains(t, err.Error(), "myapp.db")
}
