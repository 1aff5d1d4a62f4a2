package usecase

import "go.uber.org/fx"

// Module provides the order use cases to the fx container.
var Module = fx.Provide(
	NewLifecycleUseCase,
	NewOrderUseCase,
	NewAlertUseCase,
)
