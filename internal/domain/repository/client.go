package repository

import (
	"context"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// ClientRepository describes persistence operations with clients.
type ClientRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	GetByNameKey(ctx context.Context, key string) (*model.Client, error)
	// ListByIdentity returns every client holding the identity value.
	ListByIdentity(ctx context.Context, value string) ([]model.Client, error)
	// Create inserts the client unless its name key is taken, in which case
	// the existing client is returned with created=false.
	Create(ctx context.Context, client model.Client) (*model.Client, bool, error)
	AddIdentity(ctx context.Context, clientID int64, identity model.ContactIdentity) error
	List(ctx context.Context) ([]model.Client, error)
}

// ProductRepository describes persistence operations with catalog products.
type ProductRepository interface {
	// Ensure returns the product of the given type, creating it on first use.
	Ensure(ctx context.Context, product model.Product) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
}
