package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type orderRepository struct {
	q querier
}

const orderColumns = `o.id, o.number, o.client_id, c.name, o.product_id, o.product_type, o.description,
        o.quantity, o.unit, o.unit_price, o.total_price, o.currency, o.requested_date, o.delivery_date,
        o.reference, o.notes, o.article_code, o.channel, o.message_id, o.sender, o.subject,
        o.confidence, o.status, o.renewed_from_id, o.validated_by, o.validated_at, o.rejection_reason,
        o.created_at, o.updated_at`

const orderFrom = ` FROM orders o JOIN clients c ON c.id = o.client_id`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.Number, &o.ClientID, &o.ClientName, &o.ProductID, &o.ProductType, &o.Description,
		&o.Quantity, &o.Unit, &o.UnitPrice, &o.TotalPrice, &o.Currency, &o.RequestedDate, &o.DeliveryDate,
		&o.Reference, &o.Notes, &o.ArticleCode, &o.Channel, &o.MessageID, &o.Sender, &o.Subject,
		&o.Confidence, &o.Status, &o.RenewedFromID, &o.ValidatedBy, &o.ValidatedAt, &o.RejectionReason,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *orderRepository) Insert(ctx context.Context, o *model.Order) error {
	const query = `INSERT INTO orders (number, client_id, product_id, product_type, description,
                       quantity, unit, unit_price, total_price, currency, requested_date, delivery_date,
                       reference, notes, article_code, channel, message_id, sender, subject,
                       confidence, status, renewed_from_id)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
                   RETURNING id, created_at, updated_at`
	err := r.q.QueryRow(ctx, query,
		o.Number, o.ClientID, o.ProductID, o.ProductType, o.Description,
		o.Quantity, o.Unit, o.UnitPrice, o.TotalPrice, o.Currency, o.RequestedDate, o.DeliveryDate,
		o.Reference, o.Notes, o.ArticleCode, o.Channel, o.MessageID, o.Sender, o.Subject,
		o.Confidence, o.Status, o.RenewedFromID,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation {
			return fmt.Errorf("%w: %s", domainErrors.ErrPersistenceConflict, pgErr.ConstraintName)
		}
		return err
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.id=$1`, id))
}

func (r *orderRepository) GetByMessageID(ctx context.Context, messageID string) (*model.Order, error) {
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+orderFrom+` WHERE o.message_id=$1`, messageID))
}

func (r *orderRepository) LatestForClient(ctx context.Context, clientID int64) (*model.Order, error) {
	const where = ` WHERE o.client_id=$1 AND o.status IN ('pending', 'validated')
                    ORDER BY o.created_at DESC, o.id DESC LIMIT 1`
	return scanOrder(r.q.QueryRow(ctx, `SELECT `+orderColumns+orderFrom+where, clientID))
}

func (r *orderRepository) List(ctx context.Context, f model.OrderFilter) ([]model.Order, error) {
	var (
		sb   strings.Builder
		args []any
		cond []string
	)
	sb.WriteString(`SELECT ` + orderColumns + orderFrom)
	if f.Status != "" {
		args = append(args, f.Status)
		cond = append(cond, fmt.Sprintf("o.status=$%d", len(args)))
	}
	if f.ClientID != 0 {
		args = append(args, f.ClientID)
		cond = append(cond, fmt.Sprintf("o.client_id=$%d", len(args)))
	}
	if len(cond) > 0 {
		sb.WriteString(" WHERE " + strings.Join(cond, " AND "))
	}
	sb.WriteString(" ORDER BY o.created_at DESC, o.id DESC")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Transition applies d only while the order is still pending, so two racing
// decisions cannot both succeed.
func (r *orderRepository) Transition(ctx context.Context, d model.Decision) (*model.Order, error) {
	if !model.CanTransition(model.OrderStatusPending, d.Status) {
		return nil, domainErrors.ErrInvalidTransition
	}
	const query = `UPDATE orders
                   SET status=$2, validated_by=$3, validated_at=$4, rejection_reason=$5, updated_at=$4
                   WHERE id=$1 AND status='pending'
                   RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query, d.OrderID, d.Status, d.Validator, d.At, d.Reason).Scan(&id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		if _, err := r.GetByID(ctx, d.OrderID); err != nil {
			return nil, err
		}
		return nil, domainErrors.ErrInvalidTransition
	}
	return r.GetByID(ctx, id)
}

func (r *orderRepository) CountByClient(ctx context.Context, clientID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE client_id=$1`, clientID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *orderRepository) Stats(ctx context.Context) (*model.Stats, error) {
	const query = `SELECT COUNT(*),
                       COUNT(*) FILTER (WHERE status='pending'),
                       COUNT(*) FILTER (WHERE status='validated'),
                       COUNT(*) FILTER (WHERE status='rejected'),
                       (SELECT COUNT(*) FROM clients)
                   FROM orders`
	var s model.Stats
	if err := r.q.QueryRow(ctx, query).Scan(&s.Total, &s.Pending, &s.Validated, &s.Rejected, &s.Clients); err != nil {
		return nil, err
	}
	return &s, nil
}
