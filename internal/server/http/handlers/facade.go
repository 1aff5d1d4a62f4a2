package handlers

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/reconcile"
)

// IngestFacade reconciles inbound messages.
type IngestFacade interface {
	Ingest(ctx context.Context, msg model.InboundMessage, raw model.RawExtraction) (*reconcile.Result, error)
}

// OrderFacade encapsulates order queries and lifecycle decisions.
type OrderFacade interface {
	Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	Order(ctx context.Context, id int64) (*model.Order, error)
	Validate(ctx context.Context, id int64, validator string) (*model.Order, error)
	Reject(ctx context.Context, id int64, validator, reason string) (*model.Order, error)
}

// DashboardFacade provides the read views of the web dashboard.
type DashboardFacade interface {
	Clients(ctx context.Context) ([]model.Client, error)
	Products(ctx context.Context) ([]model.Product, error)
	Stats(ctx context.Context) (*model.Stats, error)
	Alerts(ctx context.Context) ([]model.Alert, error)
	ReviewQueue(ctx context.Context, limit int) ([]model.ReviewItem, error)
	Events(ctx context.Context, after int64, limit int) ([]model.Event, error)
}

// OrderDeskFacade aggregates the full set of operations used across handlers.
type OrderDeskFacade interface {
	IngestFacade
	OrderFacade
	DashboardFacade
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
