package cache

import (
	"context"
	"time"
)

// Cache is the small key/value surface the modules need. Values passed to Set
// are JSON encoded.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
	GetInt(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Ping(ctx context.Context) error
	Close() error
}

type Config struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

// New returns a Redis-backed cache when enabled and an in-process cache otherwise.
func New(ctx context.Context, cfg Config) (Cache, error) {
	if !cfg.Enabled {
		return NewMemoryCache(), nil
	}
	return NewRedisCache(ctx, cfg)
}
