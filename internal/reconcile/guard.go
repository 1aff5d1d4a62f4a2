package reconcile

import (
	"context"
	"errors"
	"log/slog"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

// SeenCache remembers reconciled message ids in front of the database.
type SeenCache interface {
	Lookup(ctx context.Context, messageID string) (orderID int64, found bool, err error)
	Remember(ctx context.Context, messageID string, orderID int64) error
}

// DuplicateGuard detects messages that already produced an order.
type DuplicateGuard struct {
	cache  SeenCache
	logger *slog.Logger
}

// NewDuplicateGuard constructs DuplicateGuard. A nil cache disables the fast path.
func NewDuplicateGuard(cache SeenCache, logger *slog.Logger) *DuplicateGuard {
	return &DuplicateGuard{cache: cache, logger: logger}
}

// Check returns the existing order id and true when messageID was already reconciled.
func (g *DuplicateGuard) Check(ctx context.Context, orders repository.OrderRepository, messageID string) (int64, bool, error) {
	if g.cache != nil {
		id, found, err := g.cache.Lookup(ctx, messageID)
		switch {
		case err != nil:
			g.logger.Warn("seen cache lookup failed", slog.String("message_id", messageID), slog.String("error", err.Error()))
		case found:
			return id, true, nil
		}
	}

	existing, err := orders.GetByMessageID(ctx, messageID)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return existing.ID, true, nil
}

// Remember records a committed order for messageID. Failures are logged only.
func (g *DuplicateGuard) Remember(ctx context.Context, messageID string, orderID int64) {
	if g.cache == nil {
		return
	}
	if err := g.cache.Remember(ctx, messageID, orderID); err != nil {
		g.logger.Warn("seen cache write failed", slog.String("message_id", messageID), slog.String("error", err.Error()))
	}
}
