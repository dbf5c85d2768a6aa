// Package system holds the handful of plugins that ship with otopi itself
// and are always present regardless of PLUGIN_PATH — collectively the
// "otopi" plugin group, loaded unconditionally alongside any requested
// groups.
package system

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/provider"
	"github.com/otopi-go/otopi/internal/stage"
)

// DefaultCommandSearchPath seeds COMMAND_PATH when a caller hasn't already
// set one, matching the original's constants.Defaults.COMMAND_SEARCH_PATH.
const DefaultCommandSearchPath = "/sbin:/usr/sbin:/bin:/usr/bin:/usr/local/sbin:/usr/local/bin"

// CreatePlugins registers the Command provider plugin, translated from
// otopi/plugins/otopi/system/command.py: it installs itself as the
// Command provider at INIT, then re-resolves every enumerated command
// against COMMAND_PATH at PROGRAMS and again at MISC (HIGH priority), so
// commands a PACKAGES-stage install just made available still get found.
func CreatePlugins(ctx plugin.Context) error {
	cmd := provider.NewCommandBase()

	ctx.RegisterEvent(plugin.EventSpec{
		Stage:    stage.Init,
		Priority: stage.PriorityHigh,
		Method: func(context.Context) error {
			ctx.Environment().SetDefault(string(environment.CommandPath), DefaultCommandSearchPath)
			ctx.RegisterCommand(cmd)
			return nil
		},
	})

	ctx.RegisterEvent(plugin.EventSpec{
		Stage:  stage.Programs,
		Name:   "system.command.detection",
		Method: func(context.Context) error { return search(ctx, cmd) },
	})

	ctx.RegisterEvent(plugin.EventSpec{
		Stage:    stage.Misc,
		Name:     "system.command.redetection",
		Priority: stage.PriorityHigh,
		Method:   func(context.Context) error { return search(ctx, cmd) },
	})

	return nil
}

// search resolves every command cmd already knows about against
// COMMAND_PATH, leaving already-resolved commands untouched.
func search(ctx plugin.Context, cmd *provider.CommandBase) error {
	searchPath := strings.Split(ctx.Environment().GetString(string(environment.CommandPath)), ":")
	for _, name := range cmd.Enum() {
		if path, _ := cmd.Get(name, true); path != "" { // optional=true never errors
			continue
		}
		for _, dir := range searchPath {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				cmd.Set(name, candidate)
				break
			}
		}
	}
	return nil
}
