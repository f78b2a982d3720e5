// Package memory implements the cache port with a mutex-guarded in-process map.
// It is the default backend: expiry is checked on every read against an
// injectable clock, so behavior is deterministic and entries never outlive
// their TTL even between sweeps.
package memory

import (
	"context"
	"sync"
	"time"
)

// entry is a stored value with its write time and lifetime.
type entry struct {
	value    []byte
	storedAt time.Time
	ttl      time.Duration
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.storedAt.Add(e.ttl))
}

// Cache is a concurrency-safe TTL cache. The zero value is not usable; use New.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces the wall clock, enabling deterministic expiry in tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value. Expired entries are removed and reported as absent.
func (c *Cache) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, found := c.entries[key]
	if !found {
		return nil, false, nil
	}
	if e.expired(c.now()) {
		delete(c.entries, key)
		return nil, false, nil
	}
	// Copy so callers cannot mutate the stored entry through the returned slice.
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a value under key for the given TTL, replacing any previous entry.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: c.now(), ttl: ttl}
	return nil
}

// StoredAt returns the write time of an unexpired entry.
func (c *Cache) StoredAt(key string) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, found := c.entries[key]
	if !found || e.expired(c.now()) {
		return time.Time{}, false
	}
	return e.storedAt, true
}

// Delete removes a value.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

// Flush clears all entries.
func (c *Cache) Flush(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	return nil
}

// Len returns the number of stored entries, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweep spawns a goroutine that removes expired entries every interval.
// Returns a cancel function that stops the sweeper.
func (c *Cache) StartSweep(interval time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
	return cancel
}

// sweep removes all expired entries.
func (c *Cache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, e := range c.entries {
		if e.expired(now) {
			delete(c.entries, key)
		}
	}
}
