package postgres

import (
	"context"
	"sort"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type eventRepository struct {
	q querier
}

const eventColumns = `seq, kind, order_id, payload, attempts, last_error, dispatched_at, created_at`

func (r *eventRepository) Append(ctx context.Context, e model.Event) (int64, error) {
	const query = `INSERT INTO order_events (kind, order_id, payload) VALUES ($1, $2, $3) RETURNING seq`
	var seq int64
	if err := r.q.QueryRow(ctx, query, e.Kind, e.OrderID, []byte(e.Payload)).Scan(&seq); err != nil {
		return 0, err
	}
	return seq, nil
}

func (r *eventRepository) ListAfter(ctx context.Context, after int64, limit int) ([]model.Event, error) {
	const query = `SELECT ` + eventColumns + ` FROM order_events WHERE seq > $1 ORDER BY seq LIMIT $2`
	return r.query(ctx, query, after, limit)
}

// ClaimPending leases undispatched events. A lease that is older than lease
// is considered abandoned and may be claimed again.
func (r *eventRepository) ClaimPending(ctx context.Context, limit, maxAttempts int, lease time.Duration) ([]model.Event, error) {
	const query = `UPDATE order_events SET claimed_at = NOW()
                   WHERE seq IN (
                       SELECT seq FROM order_events
                       WHERE dispatched_at IS NULL AND attempts < $2
                         AND (claimed_at IS NULL OR claimed_at < NOW() - $3 * INTERVAL '1 millisecond')
                       ORDER BY seq
                       LIMIT $1
                       FOR UPDATE SKIP LOCKED)
                   RETURNING ` + eventColumns
	events, err := r.query(ctx, query, limit, maxAttempts, lease.Milliseconds())
	if err != nil {
		return nil, err
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Seq < events[j].Seq })
	return events, nil
}

func (r *eventRepository) query(ctx context.Context, query string, args ...any) ([]model.Event, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Event
	for rows.Next() {
		var (
			e       model.Event
			payload []byte
		)
		if err := rows.Scan(&e.Seq, &e.Kind, &e.OrderID, &payload, &e.Attempts, &e.LastError, &e.DispatchedAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Payload = payload
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *eventRepository) MarkDispatched(ctx context.Context, seq int64) error {
	return r.exec(ctx, `UPDATE order_events SET dispatched_at=NOW(), claimed_at=NULL WHERE seq=$1`, seq)
}

func (r *eventRepository) MarkFailed(ctx context.Context, seq int64, reason string) error {
	return r.exec(ctx, `UPDATE order_events SET attempts=attempts+1, last_error=$2, claimed_at=NULL WHERE seq=$1`, seq, reason)
}

func (r *eventRepository) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

type reviewRepository struct {
	q querier
}

func (r *reviewRepository) Enqueue(ctx context.Context, item model.ReviewItem) error {
	const query = `INSERT INTO review_queue (channel, message_id, sender, subject, reason, raw)
                   VALUES ($1, $2, $3, $4, $5, $6)
                   ON CONFLICT (message_id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, item.Channel, item.MessageID, item.Sender, item.Subject, item.Reason, []byte(item.Raw))
	return err
}

func (r *reviewRepository) List(ctx context.Context, limit int) ([]model.ReviewItem, error) {
	const query = `SELECT id, channel, message_id, sender, subject, reason, raw, created_at
                   FROM review_queue ORDER BY id DESC LIMIT $1`
	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.ReviewItem
	for rows.Next() {
		var (
			item model.ReviewItem
			raw  []byte
		)
		if err := rows.Scan(&item.ID, &item.Channel, &item.MessageID, &item.Sender, &item.Subject, &item.Reason, &raw, &item.CreatedAt); err != nil {
			return nil, err
		}
		item.Raw = raw
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type auditRepository struct {
	q querier
}

func (r *auditRepository) Record(ctx context.Context, entry model.AuditEntry) error {
	const query = `INSERT INTO audit_log (action, entity, entity_id, details, actor) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, entry.Action, entry.Entity, entry.EntityID, entry.Details, entry.Actor); err != nil {
		return err
	}
	return nil
}
