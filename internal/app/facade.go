package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/polkiloo/orderdesk/internal/adapter/oracle"
	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/reconcile"
	"github.com/polkiloo/orderdesk/internal/usecase"
)

// Pipeline reconciles one message into at most one order.
type Pipeline interface {
	Reconcile(ctx context.Context, msg model.InboundMessage, raw model.RawExtraction) (*reconcile.Result, error)
}

// OrderDesk is the single entry point used by the HTTP layer.
type OrderDesk struct {
	pipeline  Pipeline
	oracle    oracle.Client
	lifecycle *usecase.LifecycleUseCase
	orders    *usecase.OrderUseCase
	alerts    *usecase.AlertUseCase
	logger    *slog.Logger
}

// NewOrderDesk constructs OrderDesk.
func NewOrderDesk(pipeline Pipeline, extractor oracle.Client, lifecycle *usecase.LifecycleUseCase, orders *usecase.OrderUseCase, alerts *usecase.AlertUseCase, logger *slog.Logger) *OrderDesk {
	return &OrderDesk{
		pipeline:  pipeline,
		oracle:    extractor,
		lifecycle: lifecycle,
		orders:    orders,
		alerts:    alerts,
		logger:    logger,
	}
}

// Ingest reconciles msg. When raw is nil the extraction oracle is asked
// first, outside of any transaction.
func (f *OrderDesk) Ingest(ctx context.Context, msg model.InboundMessage, raw model.RawExtraction) (*reconcile.Result, error) {
	if raw == nil {
		extracted, err := f.oracle.Extract(ctx, oracle.Request{
			Channel:  msg.Channel,
			Subject:  msg.Subject,
			Text:     msg.Text,
			MediaRef: msg.MediaRef,
		})
		if err != nil {
			if errors.Is(err, domainErrors.ErrOracleDisabled) {
				return nil, err
			}
			f.logger.Warn("extraction failed",
				slog.String("message_id", msg.MessageID),
				slog.String("error", err.Error()),
			)
			return nil, fmt.Errorf("%w: %w", domainErrors.ErrOracleUnavailable, err)
		}
		raw = extracted
	}
	return f.pipeline.Reconcile(ctx, msg, raw)
}

func (f *OrderDesk) Orders(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	return f.orders.List(ctx, filter)
}

func (f *OrderDesk) Order(ctx context.Context, id int64) (*model.Order, error) {
	return f.orders.Get(ctx, id)
}

func (f *OrderDesk) Validate(ctx context.Context, id int64, validator string) (*model.Order, error) {
	return f.lifecycle.Validate(ctx, id, validator)
}

func (f *OrderDesk) Reject(ctx context.Context, id int64, validator, reason string) (*model.Order, error) {
	return f.lifecycle.Reject(ctx, id, validator, reason)
}

func (f *OrderDesk) Clients(ctx context.Context) ([]model.Client, error) {
	return f.orders.Clients(ctx)
}

func (f *OrderDesk) Products(ctx context.Context) ([]model.Product, error) {
	return f.orders.Products(ctx)
}

func (f *OrderDesk) Stats(ctx context.Context) (*model.Stats, error) {
	return f.orders.Stats(ctx)
}

func (f *OrderDesk) Alerts(ctx context.Context) ([]model.Alert, error) {
	return f.alerts.Alerts(ctx)
}

func (f *OrderDesk) ReviewQueue(ctx context.Context, limit int) ([]model.ReviewItem, error) {
	return f.orders.ReviewQueue(ctx, limit)
}

func (f *OrderDesk) Events(ctx context.Context, after int64, limit int) ([]model.Event, error) {
	return f.orders.EventsAfter(ctx, after, limit)
}
