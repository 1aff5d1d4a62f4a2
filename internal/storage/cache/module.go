package cache

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/orderdesk/internal/config"
	"github.com/polkiloo/orderdesk/internal/reconcile"
)

// Module provides the reconciler seen-message cache. Without a Redis address
// the reconciler relies on the database alone.
var Module = fx.Provide(newCache)

type cacheParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
}

func newCache(p cacheParams) (reconcile.SeenCache, error) {
	if p.Config.RedisAddress == "" {
		p.Logger.Info("redis address not configured, seen-message cache disabled")
		return nil, nil
	}
	c, err := NewSeenCache(p.Config.RedisAddress, p.Config.SeenCacheTTL)
	if err != nil {
		return nil, err
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := c.Ping(ctx); err != nil {
				p.Logger.Warn("redis unreachable, duplicate checks fall back to database", slog.String("error", err.Error()))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return c.Close()
		},
	})
	return c, nil
}
