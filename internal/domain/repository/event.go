package repository

import (
	"context"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
)

// EventRepository is the transactional outbox.
type EventRepository interface {
	Append(ctx context.Context, event model.Event) (int64, error)
	ListAfter(ctx context.Context, after int64, limit int) ([]model.Event, error)
	// ClaimPending leases up to limit undelivered events for lease duration.
	ClaimPending(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Event, error)
	MarkDispatched(ctx context.Context, seq int64) error
	MarkFailed(ctx context.Context, seq int64, reason string) error
}

// ReviewRepository stores messages that need a human look.
type ReviewRepository interface {
	Enqueue(ctx context.Context, item model.ReviewItem) error
	List(ctx context.Context, limit int) ([]model.ReviewItem, error)
}

// AuditRepository appends to the audit trail.
type AuditRepository interface {
	Record(ctx context.Context, entry model.AuditEntry) error
}
