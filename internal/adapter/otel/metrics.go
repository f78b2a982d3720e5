package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "kickoff"

// Metrics holds all kickoff metric instruments.
type Metrics struct {
	CacheHits     metric.Int64Counter
	CacheMisses   metric.Int64Counter
	Fetches       metric.Int64Counter
	FetchFailures metric.Int64Counter
	FetchDuration metric.Float64Histogram
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.CacheHits, err = meter.Int64Counter("kickoff.cache.hits",
		metric.WithDescription("Number of fixture cache hits"))
	if err != nil {
		return nil, err
	}

	m.CacheMisses, err = meter.Int64Counter("kickoff.cache.misses",
		metric.WithDescription("Number of fixture cache misses"))
	if err != nil {
		return nil, err
	}

	m.Fetches, err = meter.Int64Counter("kickoff.upstream.fetches",
		metric.WithDescription("Number of upstream fixture fetches"))
	if err != nil {
		return nil, err
	}

	m.FetchFailures, err = meter.Int64Counter("kickoff.upstream.failures",
		metric.WithDescription("Number of upstream fetches that returned a degraded result"))
	if err != nil {
		return nil, err
	}

	m.FetchDuration, err = meter.Float64Histogram("kickoff.upstream.duration_seconds",
		metric.WithDescription("Upstream fetch duration in seconds"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
