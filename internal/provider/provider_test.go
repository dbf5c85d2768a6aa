package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDialogBaseConfirmReturnsDefault(t *testing.T) {
	t.Parallel()

	var d Dialog = DialogBase{}
	ok, err := d.Confirm(context.Background(), "proceed?", true)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = d.Confirm(context.Background(), "proceed?", false)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestServicesBaseReportsStopped(t *testing.T) {
	t.Parallel()

	var s Services = ServicesBase{}
	running, err := s.State(context.Background(), "sshd")
	require.NoError(t, err)
	require.False(t, running)
}

func TestPackagerBaseReportsInstalled(t *testing.T) {
	t.Parallel()

	var p Packager = PackagerBase{}
	installed, err := p.Installed(context.Background(), "git")
	require.NoError(t, err)
	require.True(t, installed)
}

func TestCommandBaseEnumSetGet(t *testing.T) {
	t.Parallel()

	c := NewCommandBase()
	c.Set("git", "/usr/bin/git")

	path, err := c.Get("git", false)
	require.NoError(t, err)
	require.Equal(t, "/usr/bin/git", path)

	path, err = c.Get("missing", true)
	require.NoError(t, err)
	require.Empty(t, path)

	require.Equal(t, []string{"git"}, c.Enum())
}

func TestCommandBaseGetUnresolvedHonorsOptional(t *testing.T) {
	t.Parallel()

	c := NewCommandBase()
	c.Set("rpm", "")

	_, err := c.Get("rpm", false)
	var required ErrCommandRequired
	require.ErrorAs(t, err, &required)
	require.Equal(t, "rpm", required.Name)

	path, err := c.Get("rpm", true)
	require.NoError(t, err)
	require.Empty(t, path)
}
