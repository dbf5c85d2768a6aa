// Package tui renders a live progress dashboard for an orchestrator run,
// grounded on the teacher's internal/tui execution model (bubbletea Model
// driven by StepStart/StepComplete/Validation messages) but simplified to
// match what the Sequence Runner's diagnostic event stream actually carries:
// stage-level start/completed/skipped transitions (internal/ports.EventPublisher,
// internal/infrastructure/events.LoggingPublisher), not a parallel step/level
// plan — otopi runs stages strictly sequentially (§4.G), so there is no
// concurrent level progress to visualize.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/otopi-go/otopi/internal/stage"
)

// status is a stage's progress state in the dashboard.
type status int

const (
	statusPending status = iota
	statusRunning
	statusCompleted
	statusSkipped
)

// StageStartedMsg reports that the runner has begun a stage.
type StageStartedMsg struct{ Stage stage.Stage }

// StageCompletedMsg reports that every handler bound to a stage has run.
type StageCompletedMsg struct{ Stage stage.Stage }

// StageSkippedMsg reports that a stage was skipped by if-success gating.
type StageSkippedMsg struct{ Stage stage.Stage }

// ErrorMsg carries a handler fault or abort surfaced via the Notification Bus.
type ErrorMsg struct{ Message string }

// DoneMsg signals the run has finished (success or failure); Update marks
// the model finished and returns tea.Quit so a running program exits.
type DoneMsg struct{ Err error }

type tickMsg struct{}

// Model is the Bubbletea state for an otopi run dashboard.
type Model struct {
	stages    []stage.Stage
	statuses  map[stage.Stage]status
	completed int
	finished  bool
	cancelled bool
	lastError string
	runErr    error
}

// NewModel constructs a dashboard Model seeded with every catalog stage
// pending (§4.B); a real run only touches the subset with bound handlers,
// the rest stay pending and render dim.
func NewModel() Model {
	stages := stage.Ordered()
	m := Model{
		stages:   stages,
		statuses: make(map[stage.Stage]status, len(stages)),
	}
	for _, st := range stages {
		m.statuses[st] = statusPending
	}
	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// Finished reports whether the run has completed or was cancelled.
func (m Model) Finished() bool { return m.finished }
