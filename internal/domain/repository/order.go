package repository

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Insert stores a new order and fills ID and timestamps. A unique
	// violation on message id or number yields ErrPersistenceConflict.
	Insert(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByMessageID(ctx context.Context, messageID string) (*model.Order, error)
	// LatestForClient returns the newest validated or pending order of the client.
	LatestForClient(ctx context.Context, clientID int64) (*model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)
	// Transition moves a pending order to a terminal status.
	Transition(ctx context.Context, d model.Decision) (*model.Order, error)
	CountByClient(ctx context.Context, clientID int64) (int64, error)
	Stats(ctx context.Context) (*model.Stats, error)
}
