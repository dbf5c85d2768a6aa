package ports

import "context"

const (
	// EventStageStarted is emitted when the runner begins a stage.
	EventStageStarted = "stage.started"
	// EventStageCompleted is emitted after a stage's handlers all ran.
	EventStageCompleted = "stage.completed"
	// EventStageSkipped is emitted when a stage is skipped by if-success gating.
	EventStageSkipped = "stage.skipped"
	// EventHandlerStarted is emitted before a handler's Method runs.
	EventHandlerStarted = "handler.started"
	// EventHandlerCompleted is emitted when a handler's Method returns nil.
	EventHandlerCompleted = "handler.completed"
	// EventHandlerFailed is emitted when a handler's Method returns an error.
	EventHandlerFailed = "handler.failed"
	// EventHandlerSkipped is emitted when a handler's Condition evaluates false.
	EventHandlerSkipped = "handler.skipped"
)

// DomainEvent represents a significant occurrence during a run — the stage
// and handler diagnostics listed above, which the runner publishes through
// an EventPublisher. The Notification Bus (internal/notify) does not use
// this type. Events carry structured payloads that downstream subscribers
// can use for logging or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous — Publish blocks until all handlers run. Handlers may spawn
// goroutines for async processing if work should continue in the
// background. Implementations must be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers
// can log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
