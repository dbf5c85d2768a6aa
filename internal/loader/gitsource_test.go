package loader

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGitEntryWithoutBranch(t *testing.T) {
	t.Parallel()

	src, err := parseGitEntry("git+https://example.com/plugins.git=/var/lib/otopi/plugins")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/plugins.git", src.URL)
	require.Equal(t, "", src.Branch)
	require.Equal(t, "/var/lib/otopi/plugins", src.Destination)
}

func TestParseGitEntryWithBranch(t *testing.T) {
	t.Parallel()

	src, err := parseGitEntry("git+https://example.com/plugins.git@main=/var/lib/otopi/plugins")
	require.NoError(t, err)
	require.Equal(t, "https://example.com/plugins.git", src.URL)
	require.Equal(t, "main", src.Branch)
	require.Equal(t, "/var/lib/otopi/plugins", src.Destination)
}

func TestParseGitEntryRejectsMissingDestination(t *testing.T) {
	t.Parallel()

	_, err := parseGitEntry("git+https://example.com/plugins.git")
	require.Error(t, err)
}

func TestResolveRootsPassesThroughPlainDirectories(t *testing.T) {
	t.Parallel()

	roots, err := ResolveRoots(nil, "/opt/otopi/plugins:/usr/share/otopi/plugins")
	require.NoError(t, err)
	require.Equal(t, []string{"/opt/otopi/plugins", "/usr/share/otopi/plugins"}, roots)
}
