// Package service holds the application services for kickoff.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kickoffhq/kickoff/internal/adapter/otel"
	"github.com/kickoffhq/kickoff/internal/domain"
	"github.com/kickoffhq/kickoff/internal/port/cache"
)

const dateLayout = "2006-01-02"

// Fetcher loads fixtures for a date range from the upstream API. Failures are
// reported inside the result, never as a Go error.
type Fetcher interface {
	Fetch(ctx context.Context, dateFrom, dateTo string) domain.MatchQueryResult
}

// TTLs holds the per-route cache lifetimes. Today's fixtures change less
// often than the rolling upcoming window, so they live longer.
type TTLs struct {
	Today    time.Duration
	Upcoming time.Duration
}

// Meta describes how a result was produced.
type Meta struct {
	Cached bool
	At     time.Time // write time of the entry for hits, fetch time for misses
}

// storedEntry is the JSON envelope written to the cache port.
type storedEntry struct {
	Result   domain.MatchQueryResult `json:"result"`
	StoredAt time.Time               `json:"storedAt"`
}

// Matches answers fixture queries from the cache, delegating to the fetcher
// on miss. Results carrying an error are returned to the caller but never
// cached, so transient upstream outages heal on the next request.
type Matches struct {
	cache   cache.Cache
	fetcher Fetcher
	ttls    TTLs
	metrics *otel.Metrics
	now     func() time.Time
	sf      singleflight.Group
}

// Option configures a Matches service.
type Option func(*Matches)

// WithClock replaces the wall clock used for key derivation and entry stamps.
func WithClock(now func() time.Time) Option {
	return func(m *Matches) { m.now = now }
}

// WithMetrics attaches cache and upstream instruments.
func WithMetrics(metrics *otel.Metrics) Option {
	return func(m *Matches) { m.metrics = metrics }
}

// NewMatches creates the fixtures service.
func NewMatches(c cache.Cache, f Fetcher, ttls TTLs, opts ...Option) *Matches {
	m := &Matches{
		cache:   c,
		fetcher: f,
		ttls:    ttls,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Today returns today's fixtures, covering [today, tomorrow].
func (m *Matches) Today(ctx context.Context) (domain.MatchQueryResult, Meta) {
	now := m.now()
	today := now.Format(dateLayout)
	tomorrow := now.AddDate(0, 0, 1).Format(dateLayout)

	return m.getOrLoad(ctx, "matches_today_"+today, m.ttls.Today, func(ctx context.Context) domain.MatchQueryResult {
		return m.fetcher.Fetch(ctx, today, tomorrow)
	})
}

// Upcoming returns fixtures from tomorrow onward. The upstream window is
// bounded by the fetcher's default range.
func (m *Matches) Upcoming(ctx context.Context) (domain.MatchQueryResult, Meta) {
	tomorrow := m.now().AddDate(0, 0, 1).Format(dateLayout)

	return m.getOrLoad(ctx, "matches_upcoming_from_"+tomorrow, m.ttls.Upcoming, func(ctx context.Context) domain.MatchQueryResult {
		return m.fetcher.Fetch(ctx, tomorrow, "")
	})
}

// Flush clears every cached entry. Called once during graceful shutdown.
func (m *Matches) Flush(ctx context.Context) error {
	return m.cache.Flush(ctx)
}

// getOrLoad returns the unexpired entry under key, or invokes loader and
// stores its result for ttl. Concurrent misses on the same key are collapsed
// into a single loader call.
func (m *Matches) getOrLoad(ctx context.Context, key string, ttl time.Duration, loader func(context.Context) domain.MatchQueryResult) (domain.MatchQueryResult, Meta) {
	if data, found, err := m.cache.Get(ctx, key); err == nil && found {
		var entry storedEntry
		if err := json.Unmarshal(data, &entry); err == nil {
			if m.metrics != nil {
				m.metrics.CacheHits.Add(ctx, 1)
			}
			return entry.Result, Meta{Cached: true, At: entry.StoredAt}
		}
		// Undecodable entry: drop it and reload.
		slog.Warn("dropping undecodable cache entry", "key", key)
		_ = m.cache.Delete(ctx, key)
	}

	if m.metrics != nil {
		m.metrics.CacheMisses.Add(ctx, 1)
	}

	v, _, _ := m.sf.Do(key, func() (any, error) {
		start := time.Now()
		result := loader(ctx)
		if m.metrics != nil {
			m.metrics.Fetches.Add(ctx, 1)
			m.metrics.FetchDuration.Record(ctx, time.Since(start).Seconds())
			if !result.OK() {
				m.metrics.FetchFailures.Add(ctx, 1)
			}
		}

		if result.OK() {
			entry := storedEntry{Result: result, StoredAt: m.now()}
			if data, err := json.Marshal(entry); err == nil {
				if err := m.cache.Set(ctx, key, data, ttl); err != nil {
					slog.Warn("cache store failed", "key", key, "error", err)
				}
			}
		}
		return result, nil
	})

	return v.(domain.MatchQueryResult), Meta{Cached: false, At: m.now()}
}
