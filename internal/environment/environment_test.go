package environment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/model"
)

func TestGetReturnsDefaultWhenAbsent(t *testing.T) {
	t.Parallel()

	s := New()
	require.Equal(t, "fallback", s.Get("MISSING", "fallback"))
}

func TestSetOverwritesUnconditionally(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("KEY", 1)
	s.Set("KEY", 2)
	require.Equal(t, 2, s.Get("KEY", nil))
}

func TestSetDefaultOnlyAppliesOnce(t *testing.T) {
	t.Parallel()

	s := New()
	s.SetDefault("KEY", "first")
	s.SetDefault("KEY", "second")
	require.Equal(t, "first", s.Get("KEY", nil))
}

func TestTypedAccessorsReturnZeroValueOnMismatch(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("BOOLKEY", "not a bool")
	require.False(t, s.GetBool("BOOLKEY"))
	require.Equal(t, 0, s.GetInt("MISSING"))
	require.Equal(t, "", s.GetString("MISSING"))
	require.Nil(t, s.GetStringSlice("MISSING"))
}

func TestKeysAreSorted(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("ZETA", 1)
	s.Set("ALPHA", 2)
	s.Set("MU", 3)
	require.Equal(t, []string{"ALPHA", "MU", "ZETA"}, s.Keys())
}

func TestIterateVisitsInSortedOrder(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("B", 2)
	s.Set("A", 1)

	var seen []string
	s.Iterate(func(key string, value any) {
		seen = append(seen, key)
	})
	require.Equal(t, []string{"A", "B"}, seen)
}

func TestIsSuppressedHonorsSuppressKey(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set(string(SuppressEnvironmentKeys), []string{"SECRET"})
	require.True(t, s.IsSuppressed("SECRET"))
	require.False(t, s.IsSuppressed("OTHER"))
}

func TestDisplayValueRedactsSuppressedKeys(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set(string(SuppressEnvironmentKeys), []string{"SECRET"})
	s.Set("SECRET", "hunter2")
	require.Equal(t, "***", s.DisplayValue("SECRET"))

	s.Set("PUBLIC", "visible")
	require.Equal(t, "visible", s.DisplayValue("PUBLIC"))
}

func TestToStringRendersBoolsAsPythonLiterals(t *testing.T) {
	t.Parallel()

	require.Equal(t, "True", ToString(true))
	require.Equal(t, "False", ToString(false))
	require.Equal(t, "None", ToString(nil))
}

func TestSnapshotStringifiesEveryValue(t *testing.T) {
	t.Parallel()

	s := New()
	s.Set("FLAG", true)
	s.Set("NAME", "otopi")

	snap := s.Snapshot()
	require.Equal(t, "True", snap["FLAG"])
	require.Equal(t, "otopi", snap["NAME"])
}

func TestNewDefaultSeedsWellKnownKeys(t *testing.T) {
	t.Parallel()

	s := NewDefault(100, model.ExitCodeSuccess, "/usr/share/otopi/plugins", DefaultPluginGroups, 0)

	require.False(t, s.GetBool(string(Error)))
	require.False(t, s.GetBool(string(Aborted)))
	require.Equal(t, []model.ExceptionRecord{}, s.Get(string(ExceptionInfo), nil))

	entries, ok := s.Get(string(ExitCode), nil).([]model.ExitCodeEntry)
	require.True(t, ok)
	require.Len(t, entries, 1)
	require.Equal(t, 101, entries[0].Priority)
	require.Equal(t, model.ExitCodeSuccess, entries[0].Code)

	require.Equal(t, ".", s.GetString(string(ExecutionDirectory)))
	require.Equal(t, "/usr/share/otopi/plugins", s.GetString(string(PluginPath)))
	require.Equal(t, DefaultPluginGroups, s.GetString(string(PluginGroups)))
}
