// Package loader implements the Plugin Loader (§4.D): walking a set of root
// directories, descending into any requested plugin group, and loading each
// module directory it finds via Go's plugin.Open/Lookup machinery.
package loader

import (
	"context"
	"fmt"
	goplugin "plugin"
	"sort"
	"strings"
	"unicode"

	"path/filepath"

	"github.com/otopi-go/otopi/internal/ports"
	pluginpkg "github.com/otopi-go/otopi/internal/plugin"
	apperrors "github.com/otopi-go/otopi/pkg/errors"
)

// moduleMarker is the file a directory must contain to be treated as a
// loadable plugin module rather than a directory to recurse into. The
// original looked for a Python package marker (__init__.py*); the Go
// analogue of "this directory is a loadable module" is the compiled shared
// object Go's own plugin package can open.
const moduleMarker = "plugin.so"

// Load walks roots looking for an immediate subdirectory matching each name
// in requestedGroups, loads every plugin module found beneath each matching
// group directory (calling its CreatePlugins against ctx), and returns every
// handler those modules registered. It fails fatally, naming the missing
// groups, if any requested group was not found under any root — matching
// _loadPluginGroups/_loadPlugins in the original.
func Load(goctx context.Context, ctx pluginpkg.Context, roots []string, requestedGroups []string, logger ports.Logger) ([]pluginpkg.Handler, error) {
	need := make(map[string]bool, len(requestedGroups))
	for _, g := range requestedGroups {
		need[g] = true
	}

	loaded := make(map[string]bool)
	graph := pluginpkg.NewDependencyGraph()
	var handlers []pluginpkg.Handler

	for _, root := range roots {
		resolved := ctx.Resolve(root)
		entries, err := filepath.Glob(filepath.Join(resolved, "*"))
		if err != nil {
			continue
		}
		for _, path := range entries {
			if !isDir(path) {
				continue
			}
			groupName := filepath.Base(path)
			if !need[groupName] {
				continue
			}
			debugf(goctx, logger, "Loading plugin group %s", groupName)
			loaded[groupName] = true
			found, err := loadPlugins(goctx, ctx, path, path, groupName, logger, graph)
			if err != nil {
				return nil, err
			}
			handlers = append(handlers, found...)
		}
	}

	if missing := missingGroups(requestedGroups, loaded); len(missing) > 0 {
		return nil, apperrors.NewLoaderError(missing)
	}

	if err := checkModuleDependencies(graph); err != nil {
		return nil, err
	}

	return handlers, nil
}

// checkModuleDependencies validates every edge a loaded module's optional
// PluginMetadata declared: every dependency name must itself be a node in
// the graph (i.e. some loaded module declared that name via its own
// Metadata), and the graph must be acyclic. Modules that export no
// PluginMetadata never appear in graph and are untouched by this check.
func checkModuleDependencies(graph *pluginpkg.DependencyGraph) error {
	for _, dependent := range graph.Nodes() {
		for _, dep := range graph.GetDependencies(dependent) {
			if !graph.HasNode(dep) {
				return pluginpkg.ErrMissingDependency{Plugin: dependent, Dependency: dep}
			}
		}
	}
	if cycle, _ := graph.DetectCycles(); len(cycle) > 0 {
		return pluginpkg.ErrCircularDependency{Cycle: cycle}
	}
	return nil
}

// loadPlugins mirrors _loadPlugins: skip dot/underscore-prefixed directories,
// recurse through any directory that is not itself a module, and load any
// directory that is.
func loadPlugins(goctx context.Context, ctx pluginpkg.Context, base, path, groupName string, logger ports.Logger, graph *pluginpkg.DependencyGraph) ([]pluginpkg.Handler, error) {
	if !isDir(path) {
		return nil, nil
	}
	name := filepath.Base(path)
	if strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".") {
		return nil, nil
	}

	if !isFile(filepath.Join(path, moduleMarker)) {
		children, err := filepath.Glob(filepath.Join(path, "*"))
		if err != nil {
			return nil, nil
		}
		var handlers []pluginpkg.Handler
		for _, child := range children {
			found, err := loadPlugins(goctx, ctx, base, child, groupName, logger, graph)
			if err != nil {
				return nil, err
			}
			handlers = append(handlers, found...)
		}
		return handlers, nil
	}

	moduleName := syntheticModuleName(base, path, groupName)
	debugf(goctx, logger, "Loading plugin %s:%s (%s)", groupName, filepath.Base(path), path)

	found, err := openModule(ctx, filepath.Join(path, moduleMarker), moduleName, graph)
	if err != nil {
		return nil, apperrors.NewPluginError(moduleName, err)
	}
	return found, nil
}

// openModule opens soPath as a Go plugin, looks up its CreatePlugins entry
// point, and runs it against a per-module Registrar so every handler it
// registers is stamped with moduleName as its Owner. If the module also
// exports an optional "PluginMetadata" func() pluginpkg.PluginMetadata, its
// declared Dependencies are recorded in graph for checkModuleDependencies to
// validate once every requested group has been loaded.
func openModule(ctx pluginpkg.Context, soPath, moduleName string, graph *pluginpkg.DependencyGraph) ([]pluginpkg.Handler, error) {
	p, err := goplugin.Open(soPath)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", soPath, err)
	}
	sym, err := p.Lookup("CreatePlugins")
	if err != nil {
		return nil, fmt.Errorf("module %s: %w", moduleName, err)
	}
	create, ok := sym.(func(pluginpkg.Context) error)
	if !ok {
		return nil, fmt.Errorf("module %s: CreatePlugins has unexpected signature %T", moduleName, sym)
	}

	collector := pluginpkg.NewCollector(moduleName)
	if err := create(moduleContext{Context: ctx, collector: collector}); err != nil {
		return nil, fmt.Errorf("module %s: %w", moduleName, err)
	}

	graph.AddNode(moduleName)
	if metaSym, err := p.Lookup("PluginMetadata"); err == nil {
		if metadataFn, ok := metaSym.(func() pluginpkg.PluginMetadata); ok {
			meta := metadataFn()
			if err := meta.Validate(); err != nil {
				return nil, fmt.Errorf("module %s: invalid PluginMetadata: %w", moduleName, err)
			}
			for _, dep := range meta.Dependencies {
				graph.AddEdge(moduleName, dep.Name)
			}
		}
	}

	return collector.Handlers(), nil
}

// moduleContext routes RegisterEvent to a per-module Collector so handler
// ownership stays scoped to the module that registered it, while every other
// Context method passes straight through to the real orchestrator context.
type moduleContext struct {
	pluginpkg.Context
	collector *pluginpkg.Collector
}

func (m moduleContext) RegisterEvent(spec pluginpkg.EventSpec) {
	m.collector.RegisterEvent(spec)
}

// syntheticModuleName builds the deterministic dotted module name
// "otopi.plugins.<group>.<relative-path>.<basename>", translating any
// character outside [A-Za-z0-9._] to '_', exactly as the original's _synth
// plus relpath-based prefix construction.
func syntheticModuleName(base, path, groupName string) string {
	rel, err := filepath.Rel(base, filepath.Dir(path))
	if err != nil {
		rel = "."
	}
	prefix := strings.TrimLeft(synth(strings.ReplaceAll(rel, string(filepath.Separator), ".")), ".")

	parts := []string{"otopi", "plugins", synth(groupName)}
	if prefix != "" {
		parts = append(parts, prefix)
	}
	parts = append(parts, synth(filepath.Base(path)))
	return strings.Join(parts, ".")
}

func synth(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, s)
}

func missingGroups(requested []string, loaded map[string]bool) []string {
	var missing []string
	for _, g := range requested {
		if !loaded[g] {
			missing = append(missing, g)
		}
	}
	sort.Strings(missing)
	return missing
}

func debugf(ctx context.Context, logger ports.Logger, format string, args ...interface{}) {
	if logger == nil {
		return
	}
	logger.Debug(ctx, fmt.Sprintf(format, args...))
}
