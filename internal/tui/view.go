package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/otopi-go/otopi/internal/stage"
)

// View renders the current state of the model.
func (m Model) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("otopi • Sequence Progress"))

	bar := newProgressBar(len(m.stages))
	sections = append(sections, sectionStyle.Render("Progress"), bar.View(m.completed))

	sections = append(sections, sectionStyle.Render("Stages"), m.renderStages())

	if strings.TrimSpace(m.lastError) != "" {
		sections = append(sections, sectionStyle.Render("Error"), errorStyle.Render(m.lastError))
	}

	if m.finished {
		summary := "run complete"
		if m.cancelled {
			summary = "cancelled"
		} else if m.runErr != nil {
			summary = fmt.Sprintf("run failed: %v", m.runErr)
		}
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderStages() string {
	var lines []string
	for _, st := range m.stages {
		entry, _ := stage.Lookup(st)
		icon := statusIcon(m.statuses[st])
		lines = append(lines, fmt.Sprintf(" %s %s", icon, entry.Display))
	}
	return strings.Join(lines, "\n")
}

func statusIcon(s status) string {
	switch s {
	case statusRunning:
		return runningStyle.Render("⏳")
	case statusCompleted:
		return completedStyle.Render("✓")
	case statusSkipped:
		return skippedStyle.Render("⊘")
	default:
		return pendingStyle.Render("…")
	}
}
