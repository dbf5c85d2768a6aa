package sequence

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/otopi-go/otopi/internal/audit"
	"github.com/otopi-go/otopi/internal/environment"
	"github.com/otopi-go/otopi/internal/model"
	"github.com/otopi-go/otopi/internal/notify"
	"github.com/otopi-go/otopi/internal/plugin"
	"github.com/otopi-go/otopi/internal/ports"
	"github.com/otopi-go/otopi/internal/stage"
	apperrors "github.com/otopi-go/otopi/pkg/errors"
)

// RunnerOptions wires the runner to its surrounding collaborators: a logger
// for stage/handler diagnostics, the Notification Bus for ERROR dispatch,
// and an optional diagnostics publisher for the richer stage/handler event
// stream (internal/infrastructure/events, distinct from notify.Bus).
type RunnerOptions struct {
	Logger    ports.Logger
	Bus       *notify.Bus
	Publisher ports.EventPublisher
	// Audit, when non-nil, additionally records every environment change,
	// stage transition, and captured exception as a durable structured
	// trail (internal/audit), independent of Logger's human-facing output.
	Audit *audit.Trail
}

// Run executes seq strictly sequentially in ascending stage-ordinal order
// (§4.G), mutating env as handlers run. It returns the first captured
// HandlerFault or Abort once the full sequence has run — cleanup and
// teardown stages (if_success == false) always get a chance to run first,
// since they are never skipped by the ERROR gate.
func Run(ctx context.Context, seq Sequence, env *environment.Store, opts RunnerOptions) error {
	logger := opts.Logger

	stages := make([]stage.Stage, 0, len(seq))
	for st := range seq {
		stages = append(stages, st)
	}
	sort.Slice(stages, func(i, j int) bool { return stage.Ordinal(stages[i]) < stage.Ordinal(stages[j]) })

	for _, st := range stages {
		entry, _ := stage.Lookup(st)
		if entry.IfSuccess && env.GetBool(string(environment.Error)) {
			publish(ctx, opts.Publisher, ports.EventStageSkipped, st)
			opts.Audit.RecordStage(string(st), "skipped")
			continue
		}

		if logger != nil {
			logger.Info(ctx, fmt.Sprintf("Stage: %s", entry.Display))
		}
		publish(ctx, opts.Publisher, ports.EventStageStarted, st)
		opts.Audit.RecordStage(string(st), "started")

		for _, handler := range seq[st] {
			if entry.IfSuccess && env.GetBool(string(environment.Error)) {
				break
			}
			if notifyErr := runHandler(ctx, st, handler, env, opts); notifyErr != nil {
				return notifyErr
			}
		}

		publish(ctx, opts.Publisher, ports.EventStageCompleted, st)
		opts.Audit.RecordStage(string(st), "completed")
	}

	if env.GetBool(string(environment.Error)) {
		records, _ := env.Get(string(environment.ExceptionInfo), nil).([]model.ExceptionRecord)
		if len(records) > 0 {
			first := records[0]
			if first.Kind == "Abort" {
				return apperrors.NewAbort(first.Message)
			}
			return apperrors.NewHandlerFault(first.Stage, first.Method, first.Stack, first.Err)
		}
		return apperrors.NewBuildError("error during sequence")
	}
	return nil
}

// runHandler executes one handler within stage st, capturing any failure
// into EXCEPTION_INFO and dispatching the ERROR notification. A listener
// that itself fails during that dispatch escalates fatally: runHandler
// returns the resulting NotificationFault so Run stops the sequence
// immediately, matching context.py's notify() call sitting outside the
// handler's own try/except — a listener exception propagates out of the
// whole run rather than being captured like a handler fault.
func runHandler(ctx context.Context, st stage.Stage, h plugin.Handler, env *environment.Store, opts RunnerOptions) error {
	logger := opts.Logger

	if logger != nil {
		logger.Debug(ctx, "executing handler", "stage", string(st), "method", h.MethodID)
	}

	before := env.Snapshot()

	if !h.Runnable() {
		if logger != nil {
			logger.Debug(ctx, "condition False", "method", h.MethodID)
		}
		publish(ctx, opts.Publisher, ports.EventHandlerSkipped, st)
		return nil
	}

	publish(ctx, opts.Publisher, ports.EventHandlerStarted, st)

	err := invoke(ctx, h)
	if err == nil {
		publish(ctx, opts.Publisher, ports.EventHandlerCompleted, st)
		diffEnvironment(ctx, env, before, logger, opts.Audit, st, h.MethodID)
		return nil
	}

	env.Set(string(environment.Error), true)

	kind := "HandlerFault"
	var abortErr *apperrors.Abort
	if asAbort(err, &abortErr) {
		kind = "Abort"
		env.Set(string(environment.Aborted), true)
		if logger != nil {
			logger.Warn(ctx, "Aborted")
		}
	} else if logger != nil {
		logger.Error(ctx, fmt.Sprintf("Failed to execute stage '%s': %v", st, err), "error", err)
	}

	records, _ := env.Get(string(environment.ExceptionInfo), nil).([]model.ExceptionRecord)
	records = append(records, model.ExceptionRecord{
		Kind:    kind,
		Stage:   string(st),
		Method:  h.MethodID,
		Message: err.Error(),
		Stack:   captureStack(),
		Err:     err,
	})
	env.Set(string(environment.ExceptionInfo), records)
	opts.Audit.RecordException(string(st), h.MethodID, kind, err.Error())

	publish(ctx, opts.Publisher, ports.EventHandlerFailed, st)
	diffEnvironment(ctx, env, before, logger, opts.Audit, st, h.MethodID)

	if opts.Bus != nil {
		if notifyErr := opts.Bus.Fire(ctx, notify.Error, env); notifyErr != nil {
			return notifyErr
		}
	}
	return nil
}

// invoke calls h.Method, recovering a panic into a HandlerFault so a
// misbehaving plugin can never crash the whole orchestrator process —
// Go has no equivalent of Python's blanket `except Exception`, so a
// recover is the idiomatic substitute.
func invoke(ctx context.Context, h plugin.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewHandlerFault(string(h.Stage), h.MethodID, captureStack(), fmt.Errorf("panic: %v", r))
		}
	}()
	if h.Method == nil {
		return nil
	}
	if e := h.Method(ctx); e != nil {
		var abortErr *apperrors.Abort
		if asAbort(e, &abortErr) {
			return e
		}
		return apperrors.NewHandlerFault(string(h.Stage), h.MethodID, "", e)
	}
	return nil
}

func asAbort(err error, target **apperrors.Abort) bool {
	for err != nil {
		if a, ok := err.(*apperrors.Abort); ok {
			*target = a
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// diffEnvironment logs every key whose displayable value changed (or is new)
// since before, redacting suppressed keys, matching the original's
// dumpEnvironment(old=...) call after every handler invocation, and records
// the same changes to the durable audit trail when one is configured.
func diffEnvironment(ctx context.Context, env *environment.Store, before map[string]string, logger ports.Logger, trail *audit.Trail, st stage.Stage, methodID string) {
	env.Iterate(func(key string, value interface{}) {
		raw := environment.ToString(value)
		if prior, ok := before[key]; ok && prior == raw {
			return
		}
		if logger != nil {
			logger.Debug(ctx, fmt.Sprintf("ENV %s=%s:'%s'", key, env.TypeName(key), env.DisplayValue(key)))
		}
		trail.RecordChange(string(st), methodID, key, env.TypeName(key), env.DisplayValue(key))
	})
}

func publish(ctx context.Context, pub ports.EventPublisher, eventType string, st stage.Stage) {
	if pub == nil {
		return
	}
	_ = pub.Publish(ctx, stageEvent{eventType: eventType, stage: string(st)})
}

type stageEvent struct {
	eventType string
	stage     string
}

func (e stageEvent) EventType() string    { return e.eventType }
func (e stageEvent) Payload() interface{} { return map[string]interface{}{"stage": e.stage} }

func captureStack() string {
	return string(debug.Stack())
}
