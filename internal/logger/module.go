package logger

import (
	"log/slog"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Module wires the slog logger and routes fx container events through it.
var Module = fx.Options(
	fx.Provide(New),
	fx.WithLogger(NewEventLogger),
)

// NewEventLogger reports fx lifecycle events at debug level, errors at error level.
func NewEventLogger(l *slog.Logger) fxevent.Logger {
	el := &fxevent.SlogLogger{Logger: l.With(slog.String("component", "fx"))}
	el.UseLogLevel(slog.LevelDebug)
	el.UseErrorLevel(slog.LevelError)
	return el
}
