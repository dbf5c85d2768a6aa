// Package config loads and validates the optional YAML configuration file
// that seeds an orchestrator Context's environment before LoadPlugins runs
// (§6). It is deliberately small: every setting here exists only to
// pre-populate a well-known environment key or an orchestrator.Options
// field — it is not a general-purpose application config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	apperrors "github.com/otopi-go/otopi/pkg/errors"
)

// OrchestratorConfig is the top-level YAML document shape.
type OrchestratorConfig struct {
	// PluginPath is the colon-separated PLUGIN_PATH search roots, each
	// either a plain local directory or a "git+<url>[@branch]=<dir>"
	// remote entry (internal/loader.ResolveRoots).
	PluginPath string `yaml:"plugin_path"`

	// PluginGroups are additional plugin groups to load beyond the
	// always-loaded "otopi" group.
	PluginGroups []string `yaml:"plugin_groups" validate:"dive,plugin_group"`

	// ExecutionDirectory seeds EXECUTION_DIRECTORY, the base every
	// relative plugin-supplied path resolves against (§4.I).
	ExecutionDirectory string `yaml:"execution_directory"`

	// RandomizeEvents seeds RANDOMIZE_EVENTS (§4.F's shuffle tie-break,
	// used to shake out accidental ordering dependencies in plugin sets).
	RandomizeEvents bool `yaml:"randomize_events"`

	// FailOnPrioOverride seeds FAIL_ON_PRIO_OVERRIDE (§4.F: a recorded
	// priority inversion becomes a fatal BuildError instead of a warning).
	FailOnPrioOverride bool `yaml:"fail_on_prio_override"`

	// StrictOrdering enables the opt-in DFS cycle precheck in the
	// Sequence Builder (§4.F, spec.md §9's Open Question decision).
	StrictOrdering bool `yaml:"strict_ordering"`

	// SuppressEnvironmentKeys seeds SUPPRESS_ENVIRONMENT_KEYS: keys whose
	// displayed value is always redacted as "***" in diagnostics and the
	// audit trail.
	SuppressEnvironmentKeys []string `yaml:"suppress_environment_keys"`

	// DebugLevel seeds DEBUG (an integer verbosity, matching OTOPI_DEBUG).
	DebugLevel int `yaml:"debug_level"`

	// LogLevel controls internal/logger's minimum emitted level
	// (debug|info|warn|error).
	LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`

	// AuditPath, if set, is the file internal/audit's structured JSON
	// trail is appended to. Empty disables the audit trail entirely.
	AuditPath string `yaml:"audit_path"`

	// GitSources are remote plugin sources materialized via
	// internal/loader.Materialize before the directory walk begins,
	// rather than being pre-encoded into PluginPath.
	GitSources []GitSourceConfig `yaml:"git_sources" validate:"dive"`
}

// GitSourceConfig is one remote plugin source entry.
type GitSourceConfig struct {
	URL         string `yaml:"url" validate:"required,git_url"`
	Branch      string `yaml:"branch"`
	Destination string `yaml:"destination" validate:"required"`
}

// Load reads and validates path as an OrchestratorConfig. A missing or
// unreadable file is returned as the os.ReadFile error; callers for which a
// missing config file is normal check os.IsNotExist on it.
func Load(path string) (*OrchestratorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg OrchestratorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, apperrors.NewValidationError("", fmt.Sprintf("parsing %s", path), err)
	}

	if err := GetValidator().Struct(&cfg); err != nil {
		return nil, apperrors.NewValidationError("", "config validation failed", err)
	}

	return &cfg, nil
}
