package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginTop(1)

	completedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	runningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	skippedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	summaryStyle   = lipgloss.NewStyle().MarginTop(1)
)
