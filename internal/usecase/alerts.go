package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/domain/repository"
	"github.com/polkiloo/orderdesk/internal/pkg/textnorm"
)

// Alert thresholds.
const (
	HighQuantityThreshold       = 10000
	SuspiciousQuantityThreshold = 5000
	SuspiciousMaxOrders         = 1
	LowConfidenceThreshold      = 60
	PendingTooLong              = 24 * time.Hour
)

// AlertUseCase inspects pending orders against the alert rules.
type AlertUseCase struct {
	repos repository.Factory
	now   func() time.Time
}

// NewAlertUseCase constructs AlertUseCase.
func NewAlertUseCase(repos repository.Factory) *AlertUseCase {
	return &AlertUseCase{repos: repos, now: time.Now}
}

// Alerts returns one entry per pending order and matching rule.
func (u *AlertUseCase) Alerts(ctx context.Context) ([]model.Alert, error) {
	pending, err := u.repos.Orders().List(ctx, model.OrderFilter{Status: model.OrderStatusPending})
	if err != nil {
		return nil, err
	}

	now := u.now()
	counts := make(map[int64]int64)
	alerts := make([]model.Alert, 0)
	for i := range pending {
		o := &pending[i]
		add := func(kind model.AlertKind, msg string) {
			alerts = append(alerts, model.Alert{
				Kind:       kind,
				OrderID:    o.ID,
				Number:     o.Number,
				ClientName: o.ClientName,
				Message:    msg,
			})
		}

		if textnorm.ContainsPhrase(o.Subject, "urgent") || textnorm.ContainsPhrase(o.Notes, "urgent") {
			add(model.AlertUrgent, "order flagged as urgent")
		}
		if o.Quantity != nil && *o.Quantity > HighQuantityThreshold {
			add(model.AlertHighQuantity, fmt.Sprintf("quantity %.0f above %d", *o.Quantity, HighQuantityThreshold))
		}
		if age := now.Sub(o.CreatedAt); age > PendingTooLong {
			add(model.AlertPendingTooLong, fmt.Sprintf("pending for %s", age.Truncate(time.Hour)))
		}
		if o.Quantity != nil && *o.Quantity > SuspiciousQuantityThreshold {
			n, ok := counts[o.ClientID]
			if !ok {
				if n, err = u.repos.Orders().CountByClient(ctx, o.ClientID); err != nil {
					return nil, err
				}
				counts[o.ClientID] = n
			}
			if n <= SuspiciousMaxOrders {
				add(model.AlertSuspicious, fmt.Sprintf("new client ordering %.0f", *o.Quantity))
			}
		}
		if o.Confidence < LowConfidenceThreshold {
			add(model.AlertLowConfidence, fmt.Sprintf("confidence %d below %d", o.Confidence, LowConfidenceThreshold))
		}
	}
	return alerts, nil
}
