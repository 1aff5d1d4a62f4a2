// Package notify delivers outbox events to downstream consumers.
package notify

import (
	"context"
	"log/slog"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// Dispatcher delivers one outbox event. A returned error leaves the event
// pending so it is retried later.
type Dispatcher interface {
	Dispatch(ctx context.Context, event model.Event) error
}

// LogDispatcher writes every event to the structured log.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher constructs LogDispatcher.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs the event and its payload.
func (d *LogDispatcher) Dispatch(ctx context.Context, event model.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.logger.Info("order event",
		slog.Int64("seq", event.Seq),
		slog.String("kind", string(event.Kind)),
		slog.Int64("order_id", event.OrderID),
		slog.Int("attempt", event.Attempts+1),
		slog.String("payload", string(event.Payload)),
	)
	return nil
}

// DispatcherFunc adapts a function to Dispatcher.
type DispatcherFunc func(ctx context.Context, event model.Event) error

// Dispatch calls f.
func (f DispatcherFunc) Dispatch(ctx context.Context, event model.Event) error {
	return f(ctx, event)
}
