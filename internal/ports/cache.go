package ports

import (
	"context"
	"time"
)

// Cache is an advisory key-value cache with TTL. Absence of a cache, or
// any cache failure, must never change correctness, only latency and
// API-call volume. Implementations therefore report misses rather than
// errors, and log failures internally.
type Cache interface {
	// Get returns the cached value and true on a hit, nil and false otherwise.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a value with the given TTL. Failures are ignored.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes a key. Failures are ignored.
	Delete(ctx context.Context, key string)
}
