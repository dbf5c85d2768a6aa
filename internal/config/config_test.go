package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "otopi.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesValidConfig(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
plugin_path: /var/lib/otopi/plugins
plugin_groups:
  - myapp
  - myapp-extra
execution_directory: /var/lib/otopi
randomize_events: true
fail_on_prio_override: true
strict_ordering: true
debug_level: 2
log_level: debug
audit_path: /var/log/otopi/audit.jsonl
git_sources:
  - url: https://example.com/plugins.git
    branch: main
    destination: /var/lib/otopi/plugins/myapp
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/var/lib/otopi/plugins", cfg.PluginPath)
	require.Equal(t, []string{"myapp", "myapp-extra"}, cfg.PluginGroups)
	require.True(t, cfg.RandomizeEvents)
	require.True(t, cfg.FailOnPrioOverride)
	require.True(t, cfg.StrictOrdering)
	require.Equal(t, 2, cfg.DebugLevel)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Len(t, cfg.GitSources, 1)
	require.Equal(t, "https://example.com/plugins.git", cfg.GitSources[0].URL)
}

func TestLoadRejectsInvalidPluginGroupName(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
plugin_groups:
  - "Not Valid!"
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
log_level: verbose
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsGitSourceMissingDestination(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, `
git_sources:
  - url: https://example.com/plugins.git
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadReturnsErrorForMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.Error(t, err)
}

func TestLoadAcceptsEmptyDocument(t *testing.T) {
	t.Parallel()

	path := writeTempConfig(t, ``)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Empty(t, cfg.PluginPath)
}
