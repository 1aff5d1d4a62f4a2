package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/polkiloo/orderdesk/internal/domain/repository"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// querier is satisfied by both the pool and an open transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxPool interface {
	querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

var _ repository.Store = (*Storage)(nil)

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Storage) Clients() repository.ClientRepository   { return &clientRepository{q: s.pool} }
func (s *Storage) Products() repository.ProductRepository { return &productRepository{q: s.pool} }
func (s *Storage) Orders() repository.OrderRepository     { return &orderRepository{q: s.pool} }
func (s *Storage) Events() repository.EventRepository     { return &eventRepository{q: s.pool} }
func (s *Storage) Reviews() repository.ReviewRepository   { return &reviewRepository{q: s.pool} }
func (s *Storage) Audit() repository.AuditRepository      { return &auditRepository{q: s.pool} }

// WithinTransaction runs fn with repositories bound to a single transaction.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(repository.Tx) error) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		return fn(&txScope{tx: tx})
	})
}

func (s *Storage) withTx(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && s.logger != nil {
				s.logger.Debug("rollback failed", slog.String("error", rbErr.Error()))
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

type txScope struct {
	tx pgx.Tx
}

func (t *txScope) Clients() repository.ClientRepository   { return &clientRepository{q: t.tx} }
func (t *txScope) Products() repository.ProductRepository { return &productRepository{q: t.tx} }
func (t *txScope) Orders() repository.OrderRepository     { return &orderRepository{q: t.tx} }
func (t *txScope) Events() repository.EventRepository     { return &eventRepository{q: t.tx} }
func (t *txScope) Reviews() repository.ReviewRepository   { return &reviewRepository{q: t.tx} }
func (t *txScope) Audit() repository.AuditRepository      { return &auditRepository{q: t.tx} }

// Lock takes an advisory lock released at commit or rollback.
func (t *txScope) Lock(ctx context.Context, key string) error {
	if _, err := t.tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("advisory lock %q: %w", key, err)
	}
	return nil
}
