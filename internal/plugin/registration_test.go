package plugin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/stage"
)

func TestCollectorStampsOwnerOnEveryHandler(t *testing.T) {
	t.Parallel()

	c := NewCollector("otopi.system.command")
	c.RegisterEvent(EventSpec{
		Stage:    stage.Setup,
		Priority: stage.PriorityHigh,
		Name:     "enum-command",
		Method:   func(context.Context) error { return nil },
	})
	c.RegisterEvent(EventSpec{
		Stage: stage.Init,
		Name:  "init",
	})

	handlers := c.Handlers()
	require.Len(t, handlers, 2)
	for _, h := range handlers {
		require.Equal(t, "otopi.system.command", h.Owner)
	}
	require.Equal(t, stage.Setup, handlers[0].Stage)
	require.Equal(t, stage.PriorityHigh, handlers[0].Priority)
}

func TestHandlerRunnableDefaultsToTrue(t *testing.T) {
	t.Parallel()

	h := Handler{Name: "no-condition"}
	require.True(t, h.Runnable())

	h.Condition = func() bool { return false }
	require.False(t, h.Runnable())
}
