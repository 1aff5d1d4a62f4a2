package usecase

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// OrderUseCase serves read access to orders and their surroundings.
type OrderUseCase struct {
	repos repository.Factory
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(repos repository.Factory) *OrderUseCase {
	return &OrderUseCase{repos: repos}
}

// List returns orders newest first.
func (u *OrderUseCase) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	filter.Limit = boundLimit(filter.Limit)
	return u.repos.Orders().List(ctx, filter)
}

// Get returns a single order.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.repos.Orders().GetByID(ctx, id)
}

// Clients lists clients with their identities.
func (u *OrderUseCase) Clients(ctx context.Context) ([]model.Client, error) {
	return u.repos.Clients().List(ctx)
}

// Products lists the catalog products referenced so far.
func (u *OrderUseCase) Products(ctx context.Context) ([]model.Product, error) {
	return u.repos.Products().List(ctx)
}

// Stats summarizes order volumes.
func (u *OrderUseCase) Stats(ctx context.Context) (*model.Stats, error) {
	return u.repos.Orders().Stats(ctx)
}

// ReviewQueue returns the newest review items.
func (u *OrderUseCase) ReviewQueue(ctx context.Context, limit int) ([]model.ReviewItem, error) {
	return u.repos.Reviews().List(ctx, boundLimit(limit))
}

// EventsAfter returns outbox events with sequence greater than after.
func (u *OrderUseCase) EventsAfter(ctx context.Context, after int64, limit int) ([]model.Event, error) {
	if after < 0 {
		after = 0
	}
	return u.repos.Events().ListAfter(ctx, after, boundLimit(limit))
}

func boundLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
