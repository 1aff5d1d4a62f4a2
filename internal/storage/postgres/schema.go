package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS clients (
        id BIGSERIAL PRIMARY KEY,
        name TEXT NOT NULL,
        name_key TEXT UNIQUE NOT NULL,
        placeholder BOOLEAN NOT NULL DEFAULT FALSE,
        address TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS client_identities (
        id BIGSERIAL PRIMARY KEY,
        client_id BIGINT NOT NULL REFERENCES clients(id),
        kind TEXT NOT NULL,
        value TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        UNIQUE (client_id, value)
    )`,
	`CREATE TABLE IF NOT EXISTS products (
        id BIGSERIAL PRIMARY KEY,
        type TEXT UNIQUE NOT NULL,
        code TEXT NOT NULL,
        description TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS orders (
        id BIGSERIAL PRIMARY KEY,
        number TEXT UNIQUE NOT NULL,
        client_id BIGINT NOT NULL REFERENCES clients(id),
        product_id BIGINT REFERENCES products(id),
        product_type TEXT NOT NULL DEFAULT '',
        description TEXT NOT NULL DEFAULT '',
        quantity DOUBLE PRECISION,
        unit TEXT NOT NULL DEFAULT '',
        unit_price DOUBLE PRECISION,
        total_price DOUBLE PRECISION,
        currency TEXT NOT NULL DEFAULT '',
        requested_date TIMESTAMPTZ,
        delivery_date TIMESTAMPTZ,
        reference TEXT NOT NULL DEFAULT '',
        notes TEXT NOT NULL DEFAULT '',
        article_code TEXT NOT NULL DEFAULT '',
        channel TEXT NOT NULL,
        message_id TEXT UNIQUE NOT NULL,
        sender TEXT NOT NULL,
        subject TEXT NOT NULL DEFAULT '',
        confidence INTEGER NOT NULL DEFAULT 0,
        status TEXT NOT NULL,
        renewed_from_id BIGINT REFERENCES orders(id),
        validated_by TEXT NOT NULL DEFAULT '',
        validated_at TIMESTAMPTZ,
        rejection_reason TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS order_events (
        seq BIGSERIAL PRIMARY KEY,
        kind TEXT NOT NULL,
        order_id BIGINT NOT NULL REFERENCES orders(id),
        payload JSONB NOT NULL,
        attempts INTEGER NOT NULL DEFAULT 0,
        last_error TEXT NOT NULL DEFAULT '',
        claimed_at TIMESTAMPTZ,
        dispatched_at TIMESTAMPTZ,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS review_queue (
        id BIGSERIAL PRIMARY KEY,
        channel TEXT NOT NULL,
        message_id TEXT UNIQUE NOT NULL,
        sender TEXT NOT NULL,
        subject TEXT NOT NULL DEFAULT '',
        reason TEXT NOT NULL,
        raw JSONB,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS audit_log (
        id BIGSERIAL PRIMARY KEY,
        action TEXT NOT NULL,
        entity TEXT NOT NULL,
        entity_id BIGINT NOT NULL,
        details TEXT NOT NULL DEFAULT '',
        actor TEXT NOT NULL DEFAULT '',
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE INDEX IF NOT EXISTS idx_client_identities_value ON client_identities(value)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_client ON orders(client_id, created_at DESC, id DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`,
	`CREATE INDEX IF NOT EXISTS idx_order_events_pending ON order_events(seq) WHERE dispatched_at IS NULL`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
