package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "orderdesk:seen:"

// SeenCache remembers which inbound message ids already produced an order.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeenCache connects to addr, which is either host:port or a redis:// URL.
func NewSeenCache(addr string, ttl time.Duration) (*SeenCache, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}
	return &SeenCache{client: redis.NewClient(opts), ttl: ttl}, nil
}

// Lookup returns the order id recorded for messageID.
func (c *SeenCache) Lookup(ctx context.Context, messageID string) (int64, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+messageID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("corrupt seen entry %q: %w", messageID, err)
	}
	return id, true, nil
}

// Remember records orderID for messageID until the TTL expires.
func (c *SeenCache) Remember(ctx context.Context, messageID string, orderID int64) error {
	return c.client.Set(ctx, keyPrefix+messageID, orderID, c.ttl).Err()
}

// Ping checks connectivity.
func (c *SeenCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (c *SeenCache) Close() error {
	return c.client.Close()
}
