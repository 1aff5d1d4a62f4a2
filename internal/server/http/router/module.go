package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/app"
	"github.com/polkiloo/orderdesk/internal/server/http/handlers"
	"github.com/polkiloo/orderdesk/internal/storage/postgres"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	Setup,
	func(d *app.OrderDesk) handlers.OrderDeskFacade { return d },
	func(s *postgres.Storage) handlers.HealthChecker { return s },
)
