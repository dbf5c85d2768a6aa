package system

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/provider"
	"github.com/otopi-go/otopi/internal/stage"
)

type fakeContext struct {
	env      *environment.Store
	registry *provider.Registry
	events   []plugin.EventSpec
}

func newFakeContext() *fakeContext {
	return &fakeContext{env: environment.New(), registry: provider.NewRegistry()}
}

func (f *fakeContext) RegisterEvent(spec plugin.EventSpec) { f.events = append(f.events, spec) }
func (f *fakeContext) Environment() *environment.Store     { return f.env }
func (f *fakeContext) Resolve(file string) string          { return file }
func (f *fakeContext) Dialog() provider.Dialog              { return f.registry.Dialog() }
func (f *fakeContext) Services() provider.Services          { return f.registry.Services() }
func (f *fakeContext) Packager() provider.Packager          { return f.registry.Packager() }
func (f *fakeContext) Command() provider.Command            { return f.registry.Command() }

func (f *fakeContext) RegisterDialog(d provider.Dialog)     { f.registry.RegisterDialog(d) }
func (f *fakeContext) RegisterServices(s provider.Services) { f.registry.RegisterServices(s) }
func (f *fakeContext) RegisterPackager(p provider.Packager) { f.registry.RegisterPackager(p) }
func (f *fakeContext) RegisterCommand(c provider.Command)   { f.registry.RegisterCommand(c) }

func (f *fakeContext) runStage(t *testing.T, st stage.Stage) {
	t.Helper()
	for _, e := range f.events {
		if e.Stage != st {
			continue
		}
		require.NoError(t, e.Method(context.Background()))
	}
}

func TestCreatePluginsRegistersInitProgramsAndMiscHandlers(t *testing.T) {
	t.Parallel()

	ctx := newFakeContext()
	require.NoError(t, CreatePlugins(ctx))
	require.Len(t, ctx.events, 3)

	var stages []stage.Stage
	for _, e := range ctx.events {
		stages = append(stages, e.Stage)
	}
	require.ElementsMatch(t, []stage.Stage{stage.Init, stage.Programs, stage.Misc}, stages)
}

func TestInitSeedsCommandPathDefaultAndRegistersProvider(t *testing.T) {
	t.Parallel()

	ctx := newFakeContext()
	require.NoError(t, CreatePlugins(ctx))
	ctx.runStage(t, stage.Init)

	require.Equal(t, DefaultCommandSearchPath, ctx.Environment().GetString(string(environment.CommandPath)))
	require.NotNil(t, ctx.Command())
}

func TestInitDoesNotOverrideExistingCommandPath(t *testing.T) {
	t.Parallel()

	ctx := newFakeContext()
	ctx.Environment().Set(string(environment.CommandPath), "/custom/bin")
	require.NoError(t, CreatePlugins(ctx))
	ctx.runStage(t, stage.Init)

	require.Equal(t, "/custom/bin", ctx.Environment().GetString(string(environment.CommandPath)))
}

func TestProgramsStageResolvesEnumeratedCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	binPath := filepath.Join(dir, "mytool")
	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0o755))

	ctx := newFakeContext()
	ctx.Environment().Set(string(environment.CommandPath), dir)
	require.NoError(t, CreatePlugins(ctx))
	ctx.runStage(t, stage.Init)

	cmd := ctx.Command()
	cmd.Set("mytool", "")
	ctx.runStage(t, stage.Programs)

	path, err := cmd.Get("mytool", false)
	require.NoError(t, err)
	require.Equal(t, binPath, path)
}

func TestMiscStageRedetectsStillUnresolvedCommands(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	binPath := filepath.Join(dir, "latetool")

	ctx := newFakeContext()
	ctx.Environment().Set(string(environment.CommandPath), dir)
	require.NoError(t, CreatePlugins(ctx))
	ctx.runStage(t, stage.Init)

	cmd := ctx.Command()
	cmd.Set("latetool", "")
	ctx.runStage(t, stage.Programs)

	path, err := cmd.Get("latetool", true)
	require.NoError(t, err)
	require.Empty(t, path, "binary does not exist yet")

	require.NoError(t, os.WriteFile(binPath, []byte("#!/bin/sh\n"), 0o755))
	ctx.runStage(t, stage.Misc)

	path, err = cmd.Get("latetool", false)
	require.NoError(t, err)
	require.Equal(t, binPath, path)
}
