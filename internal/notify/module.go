package notify

import (
	"log/slog"

	"go.uber.org/fx"
)

// Module provides the default event dispatcher.
var Module = fx.Provide(func(logger *slog.Logger) Dispatcher {
	return NewLogDispatcher(logger)
})
