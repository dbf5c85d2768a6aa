package provider

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistrySeedsBaseProviders(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.IsType(t, DialogBase{}, r.Dialog())
	require.IsType(t, ServicesBase{}, r.Services())
	require.IsType(t, PackagerBase{}, r.Packager())
	require.NotNil(t, r.Command())
}

func TestRegistryLastWriteWins(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	first := NewCommandBase()
	second := NewCommandBase()

	r.RegisterCommand(first)
	r.RegisterCommand(second)

	require.Same(t, second, r.Command())
}

func TestRegistriesAreIndependentInstances(t *testing.T) {
	t.Parallel()

	a := NewRegistry()
	b := NewRegistry()

	a.RegisterDialog(customDialog{})
	require.IsType(t, DialogBase{}, b.Dialog())
}

type customDialog struct{ DialogBase }
