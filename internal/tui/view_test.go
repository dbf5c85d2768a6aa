package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/stage"
)

func TestViewRendersStageDisplay(t *testing.T) {
	m := NewModel()
	out := m.View()
	require.Contains(t, out, "Progress")
	require.Contains(t, out, "Stages")
}

func TestViewRendersErrorSection(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(ErrorMsg{Message: "handler fault: boom"})
	m = updated.(Model)
	out := m.View()
	require.Contains(t, out, "boom")
}

func TestViewRendersSummaryOnlyWhenFinished(t *testing.T) {
	m := NewModel()
	require.False(t, strings.Contains(m.View(), "Summary"))

	updated, _ := m.Update(StageCompletedMsg{Stage: stage.Boot})
	m = updated.(Model)
	require.False(t, strings.Contains(m.View(), "Summary"))

	updated, _ = m.Update(DoneMsg{})
	m = updated.(Model)
	require.Contains(t, m.View(), "Summary")
}
