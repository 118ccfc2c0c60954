// Package cache stores JSON-encoded values with a TTL. Redis backs it when
// configured; otherwise every lookup misses.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospect-cli/internal/config"
)

// Cache is a TTL key-value store for JSON-serialisable values.
type Cache interface {
	// Get decodes the value at key into dst and reports whether it existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

// New returns a Redis cache for cfg, or a Noop cache when no address is
// configured.
func New(cfg config.RedisConfig) Cache {
	if cfg.Addr == "" {
		return Noop{}
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
	zap.L().Info("cache: using redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return NewRedis(rdb)
}

// Redis is a Cache backed by a go-redis client.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string, dst any) (bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "cache: get %s", key)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, eris.Wrapf(err, "cache: decode %s", key)
	}
	return true, nil
}

// Set implements Cache. A non-positive ttl stores without expiry.
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return eris.Wrapf(err, "cache: encode %s", key)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}

// Ping implements Cache.
func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return eris.Wrap(err, "cache: redis ping")
	}
	return nil
}

// Close implements Cache.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Noop never stores anything.
type Noop struct{}

func (Noop) Get(context.Context, string, any) (bool, error)        { return false, nil }
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }
func (Noop) Ping(context.Context) error                            { return nil }
func (Noop) Close() error                                          { return nil }
