package events

import (
	"context"
	"log/slog"
	"sync"
)

// Bus is an in-memory Emitter that dispatches synchronously to every
// registered handler in registration order.
type Bus struct {
	subs   []subscription
	nextID int
	mu     sync.RWMutex
	logger *slog.Logger
}

type subscription struct {
	id      int
	handler Handler
}

var _ Emitter = (*Bus)(nil)

// NewBus creates an empty Bus.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		logger: logger.With("component", "event_bus"),
	}
}

// Subscribe registers h and returns a function that removes it.
func (b *Bus) Subscribe(h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, handler: h})
	b.logger.Debug("registered event handler", "handler_count", len(b.subs))

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered handlers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Emit delivers event to every handler. A failing handler does not stop
// delivery to the rest; the first error is returned.
func (b *Bus) Emit(ctx context.Context, event *Event) error {
	b.mu.RLock()
	handlers := make([]Handler, len(b.subs))
	for i, sub := range b.subs {
		handlers[i] = sub.handler
	}
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	var firstErr error
	for i, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			b.logger.Error("handler failed to process event",
				"error", err,
				"handler_index", i,
				"event_id", event.ID,
				"event_type", event.Type)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// LogHandler returns a Handler that writes every event to logger at debug
// level.
func LogHandler(logger *slog.Logger) Handler {
	return HandlerFunc(func(ctx context.Context, e *Event) error {
		args := []any{"event_id", e.ID, "event_type", string(e.Type), "session_id", e.SessionID}
		for k, v := range e.Attrs {
			args = append(args, k, v)
		}
		logger.DebugContext(ctx, "engine event", args...)
		return nil
	})
}
