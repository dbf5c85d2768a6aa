package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/otopi-go/otopi/internal/stage"
)

func TestUpdateHandlesStageStarted(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(StageStartedMsg{Stage: stage.Setup})
	m = updated.(Model)
	require.Equal(t, statusRunning, m.statuses[stage.Setup])
}

func TestUpdateHandlesStageCompleted(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(StageCompletedMsg{Stage: stage.Setup})
	m = updated.(Model)
	require.Equal(t, statusCompleted, m.statuses[stage.Setup])
	require.Equal(t, 1, m.completed)

	// completing the same stage twice must not double-count
	updated, _ = m.Update(StageCompletedMsg{Stage: stage.Setup})
	m = updated.(Model)
	require.Equal(t, 1, m.completed)
}

func TestUpdateHandlesStageSkipped(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(StageSkippedMsg{Stage: stage.Packages})
	m = updated.(Model)
	require.Equal(t, statusSkipped, m.statuses[stage.Packages])
	require.Equal(t, 1, m.completed)
}

func TestUpdateHandlesErrorMessage(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(ErrorMsg{Message: "handler fault: boom"})
	m = updated.(Model)
	require.Equal(t, "handler fault: boom", m.lastError)
}

func TestUpdateHandlesDoneMessage(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(DoneMsg{Err: errors.New("boom")})
	m = updated.(Model)
	require.True(t, m.finished)
	require.Error(t, m.runErr)
	require.NotNil(t, cmd)
}

func TestUpdateHandlesCtrlC(t *testing.T) {
	m := NewModel()
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	m = updated.(Model)
	require.True(t, m.cancelled)
	require.True(t, m.finished)
}
