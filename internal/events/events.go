// Package events carries change notifications from the engines to
// observers such as loggers and user interfaces.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type names a kind of engine change.
type Type string

const (
	QuizLoadStarted       Type = "quiz.load_started"
	QuizLoaded            Type = "quiz.loaded"
	QuizLoadFailed        Type = "quiz.load_failed"
	QuizResponseSubmitted Type = "quiz.response_submitted"
	QuizCursorMoved       Type = "quiz.cursor_moved"
	QuizReset             Type = "quiz.reset"

	SimLoadStarted      Type = "simulation.load_started"
	SimLoaded           Type = "simulation.loaded"
	SimLoadFailed       Type = "simulation.load_failed"
	SimScenarioSelected Type = "simulation.scenario_selected"
	SimOptionChosen     Type = "simulation.option_chosen"
	SimCompleted        Type = "simulation.completed"
	SimRetried          Type = "simulation.retried"
	SimExited           Type = "simulation.exited"
)

// Event is a single change notification. Attrs holds small, flat details
// (ids, xp amounts) suitable for structured logging.
type Event struct {
	ID        uuid.UUID
	Type      Type
	SessionID string
	Attrs     map[string]any
	CreatedAt time.Time
}

// New creates an Event stamped with a fresh id and the current time.
func New(t Type, sessionID string, attrs map[string]any) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      t,
		SessionID: sessionID,
		Attrs:     attrs,
		CreatedAt: time.Now(),
	}
}

// Handler reacts to events.
type Handler interface {
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event *Event) error

func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// Emitter publishes events to registered handlers.
type Emitter interface {
	Emit(ctx context.Context, event *Event) error
}

// Nop is an Emitter that drops every event.
type Nop struct{}

func (Nop) Emit(context.Context, *Event) error { return nil }
