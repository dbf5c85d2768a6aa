// Package audit implements a durable, machine-parseable audit trail of an
// orchestration run: every environment-key change, captured exception, and
// stage transition the Sequence Runner observes, recorded as structured JSON
// lines independent of (and in addition to) the human-facing diagnostic
// logger in internal/logger. Grounded on the teacher's zerolog usage
// (internal/logger/logger.go in streamspace-dev-streamspace): an
// instance-scoped zerolog.Logger writing timestamped, field-tagged JSON to
// an io.Writer, never the pretty console renderer — an audit trail exists to
// be retained and grepped/jq'd later, not read live.
package audit

import (
	"io"

	"github.com/rs/zerolog"
)

// Trail is a structured, append-only record of one orchestration run.
type Trail struct {
	logger zerolog.Logger
}

// New returns a Trail writing structured JSON lines to w (typically an
// audit log file opened by the CLI, distinct from stdout/stderr).
func New(w io.Writer) *Trail {
	return &Trail{logger: zerolog.New(w).With().Timestamp().Logger()}
}

// RecordChange appends one environment-key change observed after executing
// handler within stageName, mirroring the runner's "ENV key=type:'value'"
// diagnostic line (§4.G) but as a structured, retained record rather than a
// transient debug log.
func (t *Trail) RecordChange(stageName, handler, key, typeName, value string) {
	if t == nil {
		return
	}
	t.logger.Info().
		Str("stage", stageName).
		Str("handler", handler).
		Str("key", key).
		Str("type", typeName).
		Str("value", value).
		Msg("environment changed")
}

// RecordException appends one captured handler failure (Abort or
// HandlerFault) to the audit trail.
func (t *Trail) RecordException(stageName, method, kind, message string) {
	if t == nil {
		return
	}
	t.logger.Warn().
		Str("stage", stageName).
		Str("method", method).
		Str("kind", kind).
		Msg(message)
}

// RecordStage appends a stage transition (started, completed, or skipped).
func (t *Trail) RecordStage(stageName, transition string) {
	if t == nil {
		return
	}
	t.logger.Info().
		Str("stage", stageName).
		Str("transition", transition).
		Msg("stage transition")
}
