// Package config provides hierarchical configuration loading for kickoff.
// Precedence: defaults < YAML file < environment variables.
package config

import "time"

// Config holds all runtime configuration for the kickoff service.
type Config struct {
	Server   Server   `yaml:"server"`
	Upstream Upstream `yaml:"upstream"`
	Cache    Cache    `yaml:"cache"`
	Rate     Rate     `yaml:"rate"`
	Breaker  Breaker  `yaml:"breaker"`
	Logging  Logging  `yaml:"logging"`
	Otel     Otel     `yaml:"otel"`
}

// Server holds HTTP server configuration.
type Server struct {
	Port       string `yaml:"port"`
	CORSOrigin string `yaml:"cors_origin"`
	StaticDir  string `yaml:"static_dir"`
}

// Upstream holds matches API configuration. Token is normally supplied via
// the FOOTBALL_DATA_TOKEN environment variable; an empty token does not fail
// validation, the service instead serves degraded "token missing" results.
type Upstream struct {
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token"`
	Timeout time.Duration `yaml:"timeout"`
}

// Cache holds response cache configuration.
type Cache struct {
	Backend       string        `yaml:"backend"` // "memory" or "ristretto"
	TodayTTL      time.Duration `yaml:"today_ttl"`
	UpcomingTTL   time.Duration `yaml:"upcoming_ttl"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	MaxSizeMB     int64         `yaml:"max_size_mb"` // ristretto backend only
}

// Rate holds rate limiter configuration.
type Rate struct {
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
	CleanupInterval   time.Duration `yaml:"cleanup_interval"`
	MaxIdleTime       time.Duration `yaml:"max_idle_time"`
}

// Breaker holds circuit breaker configuration for upstream calls.
type Breaker struct {
	MaxFailures int           `yaml:"max_failures"`
	Timeout     time.Duration `yaml:"timeout"`
}

// Logging holds structured logging configuration.
type Logging struct {
	Level   string `yaml:"level"`
	Service string `yaml:"service"`
}

// Otel holds OpenTelemetry export configuration.
type Otel struct {
	Enabled  bool   `yaml:"enabled"`
	Endpoint string `yaml:"endpoint"`
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Server: Server{
			Port:       "8080",
			CORSOrigin: "http://localhost:3000",
			StaticDir:  "./web",
		},
		Upstream: Upstream{
			URL:     "https://api.football-data.org/v4",
			Timeout: 10 * time.Second,
		},
		Cache: Cache{
			Backend:       "memory",
			TodayTTL:      30 * time.Minute,
			UpcomingTTL:   5 * time.Minute,
			SweepInterval: 2 * time.Minute,
			MaxSizeMB:     64,
		},
		Rate: Rate{
			RequestsPerSecond: 10,
			Burst:             30,
			CleanupInterval:   5 * time.Minute,
			MaxIdleTime:       10 * time.Minute,
		},
		Breaker: Breaker{
			MaxFailures: 5,
			Timeout:     30 * time.Second,
		},
		Logging: Logging{
			Level:   "info",
			Service: "kickoff-api",
		},
		Otel: Otel{
			Enabled:  false,
			Endpoint: "localhost:4317",
		},
	}
}
