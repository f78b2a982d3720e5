// Package cache defines the port interface for response caching.
package cache

import (
	"context"
	"time"
)

// Cache is the port interface for key-value caching with per-entry TTLs.
// An entry past its TTL is treated as absent on Get regardless of whether a
// background sweep has removed it yet. Get returns a slice the caller owns;
// mutating it must not affect the stored entry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Flush(ctx context.Context) error
}
