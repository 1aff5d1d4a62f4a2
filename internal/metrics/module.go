package metrics

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/reconcile"
	"github.com/polkiloo/orderdesk/internal/usecase"
	"github.com/polkiloo/orderdesk/internal/worker"
)

// Module provides the shared Recorder and the views consumers depend on.
var Module = fx.Provide(
	New,
	func(r *Recorder) reconcile.Metrics { return r },
	func(r *Recorder) usecase.TransitionMetrics { return r },
	func(r *Recorder) worker.DeliveryMetrics { return r },
)
