package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

// TransitionMetrics observes successful lifecycle transitions.
type TransitionMetrics interface {
	ObserveTransition(status string)
}

// LifecycleUseCase moves pending orders to validated or rejected.
type LifecycleUseCase struct {
	store   repository.Store
	metrics TransitionMetrics
	logger  *slog.Logger
	now     func() time.Time
}

// NewLifecycleUseCase constructs LifecycleUseCase. metrics may be nil.
func NewLifecycleUseCase(store repository.Store, metrics TransitionMetrics, logger *slog.Logger) *LifecycleUseCase {
	return &LifecycleUseCase{store: store, metrics: metrics, logger: logger, now: time.Now}
}

// Validate marks a pending order as validated by validator.
func (u *LifecycleUseCase) Validate(ctx context.Context, orderID int64, validator string) (*model.Order, error) {
	validator = strings.TrimSpace(validator)
	if validator == "" {
		return nil, domainErrors.ErrValidatorRequired
	}
	return u.decide(ctx, model.Decision{
		OrderID:   orderID,
		Status:    model.OrderStatusValidated,
		Validator: validator,
	})
}

// Reject marks a pending order as rejected with a mandatory reason.
func (u *LifecycleUseCase) Reject(ctx context.Context, orderID int64, validator, reason string) (*model.Order, error) {
	validator = strings.TrimSpace(validator)
	if validator == "" {
		return nil, domainErrors.ErrValidatorRequired
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domainErrors.ErrReasonRequired
	}
	return u.decide(ctx, model.Decision{
		OrderID:   orderID,
		Status:    model.OrderStatusRejected,
		Validator: validator,
		Reason:    reason,
	})
}

// decide applies d together with its outbox event and audit entry.
func (u *LifecycleUseCase) decide(ctx context.Context, d model.Decision) (*model.Order, error) {
	d.At = u.now().UTC()

	kind, action := model.EventOrderValidated, model.AuditOrderValidated
	if d.Status == model.OrderStatusRejected {
		kind, action = model.EventOrderRejected, model.AuditOrderRejected
	}

	var updated *model.Order
	err := u.store.WithinTransaction(ctx, func(tx repository.Tx) error {
		order, err := tx.Orders().Transition(ctx, d)
		if err != nil {
			return err
		}
		event, err := model.NewOrderEvent(kind, order)
		if err != nil {
			return err
		}
		if _, err := tx.Events().Append(ctx, event); err != nil {
			return err
		}
		details := order.Number
		if d.Reason != "" {
			details = order.Number + ": " + d.Reason
		}
		if err := tx.Audit().Record(ctx, model.AuditEntry{
			Action:   action,
			Entity:   "order",
			EntityID: order.ID,
			Details:  details,
			Actor:    d.Validator,
		}); err != nil {
			return err
		}
		updated = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if u.metrics != nil {
		u.metrics.ObserveTransition(string(d.Status))
	}
	u.logger.Info("order transitioned",
		slog.Int64("order_id", updated.ID),
		slog.String("status", string(updated.Status)),
		slog.String("validated_by", d.Validator),
	)
	return updated, nil
}
