package repository

import "context"

// Factory describes access to different domain repositories.
type Factory interface {
	Clients() ClientRepository
	Products() ProductRepository
	Orders() OrderRepository
	Events() EventRepository
	Reviews() ReviewRepository
	Audit() AuditRepository
}

// Tx is a Factory bound to one open transaction.
type Tx interface {
	Factory
	// Lock takes a transaction scoped advisory lock on key.
	Lock(ctx context.Context, key string) error
}

// Transactor runs fn inside a transaction, committing when fn returns nil.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(Tx) error) error
}

// Store combines non-transactional access with transaction support.
type Store interface {
	Factory
	Transactor
}
