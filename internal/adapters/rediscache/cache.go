package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accumbot/internal/ports"

	"github.com/redis/go-redis/v9"
)

// Cache implements ports.Cache on Redis. The cache is purely advisory:
// every failure degrades to a miss and is logged, never returned.
type Cache struct {
	client    *redis.Client
	namespace string
	logger    ports.Logger
}

// Config holds configuration for the Redis cache adapter.
type Config struct {
	URL       string // redis://[user:pass@]host:port[/db]
	Namespace string // key prefix for environment separation
	Logger    ports.Logger
}

// New creates a Redis cache adapter and verifies connectivity.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for Redis cache")
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "accumbot"
	}

	cfg.Logger.Info(ctx, "Redis cache connected", map[string]interface{}{"addr": opts.Addr, "namespace": namespace})
	return &Cache{client: client, namespace: namespace, logger: cfg.Logger}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) key(key string) string {
	return c.namespace + ":" + key
}

// Get returns the cached value and true on a hit.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	value, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn(ctx, "Cache get failed", map[string]interface{}{"key": key, "error": err.Error()})
		}
		return nil, false
	}
	return value, true
}

// Set stores a value with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.Warn(ctx, "Cache set failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// Delete removes a key.
func (c *Cache) Delete(ctx context.Context, key string) {
	if err := c.client.Del(ctx, c.key(key)).Err(); err != nil {
		c.logger.Warn(ctx, "Cache delete failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}
