// Package environment implements the shared, typed key/value store (§4.A)
// threaded through every handler invocation. Access is single-threaded by
// construction (see SPEC_FULL.md §5); the store performs no locking.
package environment

import (
	"fmt"
	"sort"

	"github.com/otopi-go/otopi/internal/model"
)

// Store is the environment mapping. The zero value is not usable; construct
// one with New.
type Store struct {
	values map[string]any
}

// New returns an empty Store.
func New() *Store {
	return &Store{values: make(map[string]any)}
}

// Get returns the value stored at key, or def if absent.
func (s *Store) Get(key string, def any) any {
	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// GetBool is a typed convenience accessor; non-bool values return false.
func (s *Store) GetBool(key string) bool {
	v, _ := s.values[key].(bool)
	return v
}

// GetInt is a typed convenience accessor; non-int values return 0.
func (s *Store) GetInt(key string) int {
	v, _ := s.values[key].(int)
	return v
}

// GetString is a typed convenience accessor; non-string values return "".
func (s *Store) GetString(key string) string {
	v, _ := s.values[key].(string)
	return v
}

// GetStringSlice is a typed convenience accessor.
func (s *Store) GetStringSlice(key string) []string {
	v, _ := s.values[key].([]string)
	return v
}

// Set installs value at key, unconditionally overwriting any prior value.
func (s *Store) Set(key string, value any) {
	s.values[key] = value
}

// SetDefault installs value at key only if key is currently absent. Plugins
// use this pervasively at INIT stage to declare defaults without
// overriding caller-supplied values.
func (s *Store) SetDefault(key string, value any) {
	if _, ok := s.values[key]; !ok {
		s.values[key] = value
	}
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns all keys currently present, in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Iterate calls fn once per key/value pair, in sorted key order, for
// deterministic diagnostic output.
func (s *Store) Iterate(fn func(key string, value any)) {
	for _, k := range s.Keys() {
		fn(k, s.values[k])
	}
}

// Snapshot returns a plain map copy of the store's current stringified
// values, suitable for diffing against a later snapshot (§4.G).
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = ToString(v)
	}
	return out
}

// IsSuppressed reports whether key is listed in SUPPRESS_ENVIRONMENT_KEYS.
func (s *Store) IsSuppressed(key string) bool {
	for _, k := range s.GetStringSlice(string(SuppressEnvironmentKeys)) {
		if k == key {
			return true
		}
	}
	return false
}

// DisplayValue renders a key's current value for diagnostics, substituting
// "***" when the key is suppressed.
func (s *Store) DisplayValue(key string) string {
	if s.IsSuppressed(key) {
		return "***"
	}
	return ToString(s.values[key])
}

// TypeName returns a short, display-friendly type tag for a key's current
// value, mirroring the original's `type(value).__name__` dump.
func (s *Store) TypeName(key string) string {
	return typeName(s.values[key])
}

// ToString renders any environment value as its displayable string form.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return "None"
	case bool:
		if t {
			return "True"
		}
		return "False"
	case string:
		return t
	case []string:
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "NoneType"
	case bool:
		return "bool"
	case int:
		return "int"
	case string:
		return "str"
	case []string:
		return "list"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// NewDefault returns a Store pre-seeded with every well-known key's initial
// value, per the table in spec.md §3. Callers (internal/orchestrator) layer
// provider registration and config overrides on top.
func NewDefault(lastPriority int, successCode int, pluginPath, pluginGroups string, debugLevel int) *Store {
	s := New()
	s.Set(string(Error), false)
	s.Set(string(Aborted), false)
	s.Set(string(ExceptionInfo), []model.ExceptionRecord{})
	s.Set(string(ExitCode), []model.ExitCodeEntry{{Priority: lastPriority + 1, Code: successCode}})
	s.Set(string(ExecutionDirectory), ".")
	s.Set(string(SuppressEnvironmentKeys), []string{})
	s.Set(string(Log), false)
	s.Set(string(PluginPath), pluginPath)
	s.Set(string(PluginGroups), pluginGroups)
	s.Set(string(Debug), debugLevel)
	s.Set(string(RandomizeEvents), false)
	s.Set(string(FailOnPrioOverride), false)
	return s
}
