package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

type clientRepository struct {
	q querier
}

const clientColumns = `c.id, c.name, c.name_key, c.placeholder, c.address, c.created_at`

func scanClient(row pgx.Row) (*model.Client, error) {
	var c model.Client
	if err := row.Scan(&c.ID, &c.Name, &c.NameKey, &c.Placeholder, &c.Address, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	return scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.id=$1`, id))
}

func (r *clientRepository) GetByNameKey(ctx context.Context, key string) (*model.Client, error) {
	return scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients c WHERE c.name_key=$1`, key))
}

func (r *clientRepository) ListByIdentity(ctx context.Context, value string) ([]model.Client, error) {
	const query = `SELECT ` + clientColumns + ` FROM clients c
                   JOIN client_identities i ON i.client_id = c.id
                   WHERE i.value=$1 ORDER BY c.id`
	return r.list(ctx, query, value)
}

func (r *clientRepository) list(ctx context.Context, query string, args ...any) ([]model.Client, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *clientRepository) Create(ctx context.Context, c model.Client) (*model.Client, bool, error) {
	const query = `INSERT INTO clients (name, name_key, placeholder, address) VALUES ($1, $2, $3, $4)
                   ON CONFLICT (name_key) DO NOTHING
                   RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, c.Name, c.NameKey, c.Placeholder, c.Address).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			existing, err := r.GetByNameKey(ctx, c.NameKey)
			if err != nil {
				return nil, false, err
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return &c, true, nil
}

func (r *clientRepository) AddIdentity(ctx context.Context, clientID int64, identity model.ContactIdentity) error {
	const query = `INSERT INTO client_identities (client_id, kind, value) VALUES ($1, $2, $3)
                   ON CONFLICT (client_id, value) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, clientID, identity.Kind, identity.Value); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

// List returns every client by name with its identities attached.
func (r *clientRepository) List(ctx context.Context) ([]model.Client, error) {
	clients, err := r.list(ctx, `SELECT `+clientColumns+` FROM clients c ORDER BY c.name, c.id`)
	if err != nil {
		return nil, err
	}
	if len(clients) == 0 {
		return clients, nil
	}

	rows, err := r.q.Query(ctx, `SELECT client_id, kind, value FROM client_identities ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byID := make(map[int64]int, len(clients))
	for i := range clients {
		byID[clients[i].ID] = i
	}
	for rows.Next() {
		var (
			clientID int64
			identity model.ContactIdentity
		)
		if err := rows.Scan(&clientID, &identity.Kind, &identity.Value); err != nil {
			return nil, err
		}
		if i, ok := byID[clientID]; ok {
			clients[i].Identities = append(clients[i].Identities, identity)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return clients, nil
}

type productRepository struct {
	q querier
}

func (r *productRepository) Ensure(ctx context.Context, p model.Product) (*model.Product, error) {
	const query = `INSERT INTO products (type, code, description) VALUES ($1, $2, $3)
                   ON CONFLICT (type) DO UPDATE SET code = EXCLUDED.code
                   RETURNING id, description, created_at`
	if err := r.q.QueryRow(ctx, query, p.Type, p.Code, p.Description).Scan(&p.ID, &p.Description, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.q.Query(ctx, `SELECT id, type, code, description, created_at FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Type, &p.Code, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
