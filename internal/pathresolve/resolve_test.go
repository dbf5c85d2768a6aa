package pathresolve

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveJoinsRelativePaths(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/opt/otopi/plugins", Resolve("/opt/otopi", "plugins"))
}

func TestResolveLeavesAbsolutePathsUnchanged(t *testing.T) {
	t.Parallel()

	require.Equal(t, "/etc/otopi.conf", Resolve("/opt/otopi", "/etc/otopi.conf"))
}

func TestResolveLeavesEmptyUnchanged(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", Resolve("/opt/otopi", ""))
}

func TestResolveIsIdempotentOnAbsolutePaths(t *testing.T) {
	t.Parallel()

	once := Resolve("/opt/otopi", "/etc/otopi.conf")
	twice := Resolve("/opt/otopi", once)
	require.Equal(t, once, twice)
}
