package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, nil
	case StageStartedMsg:
		m.statuses[msg.Stage] = statusRunning
		return m, nil
	case StageCompletedMsg:
		if m.statuses[msg.Stage] != statusCompleted {
			m.completed++
		}
		m.statuses[msg.Stage] = statusCompleted
		return m, nil
	case StageSkippedMsg:
		if m.statuses[msg.Stage] != statusSkipped {
			m.completed++
		}
		m.statuses[msg.Stage] = statusSkipped
		return m, nil
	case ErrorMsg:
		m.lastError = msg.Message
		return m, nil
	case DoneMsg:
		m.finished = true
		m.runErr = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
