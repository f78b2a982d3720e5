package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "kickoff.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is validated by caller
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "KICKOFF_PORT")
	setString(&cfg.Server.CORSOrigin, "KICKOFF_CORS_ORIGIN")
	setString(&cfg.Server.StaticDir, "KICKOFF_STATIC_DIR")
	setString(&cfg.Upstream.URL, "KICKOFF_UPSTREAM_URL")
	setString(&cfg.Upstream.Token, "FOOTBALL_DATA_TOKEN")
	setDuration(&cfg.Upstream.Timeout, "KICKOFF_UPSTREAM_TIMEOUT")
	setString(&cfg.Cache.Backend, "KICKOFF_CACHE_BACKEND")
	setDuration(&cfg.Cache.TodayTTL, "KICKOFF_CACHE_TODAY_TTL")
	setDuration(&cfg.Cache.UpcomingTTL, "KICKOFF_CACHE_UPCOMING_TTL")
	setDuration(&cfg.Cache.SweepInterval, "KICKOFF_CACHE_SWEEP_INTERVAL")
	setInt64(&cfg.Cache.MaxSizeMB, "KICKOFF_CACHE_MAX_SIZE_MB")
	setFloat64(&cfg.Rate.RequestsPerSecond, "KICKOFF_RATE_RPS")
	setInt(&cfg.Rate.Burst, "KICKOFF_RATE_BURST")
	setDuration(&cfg.Rate.CleanupInterval, "KICKOFF_RATE_CLEANUP_INTERVAL")
	setDuration(&cfg.Rate.MaxIdleTime, "KICKOFF_RATE_MAX_IDLE_TIME")
	setInt(&cfg.Breaker.MaxFailures, "KICKOFF_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "KICKOFF_BREAKER_TIMEOUT")
	setString(&cfg.Logging.Level, "KICKOFF_LOG_LEVEL")
	setString(&cfg.Logging.Service, "KICKOFF_LOG_SERVICE")
	setBool(&cfg.Otel.Enabled, "KICKOFF_OTEL_ENABLED")
	setString(&cfg.Otel.Endpoint, "KICKOFF_OTEL_ENDPOINT")
}

// validate checks that required fields are set. A missing upstream token is
// deliberately not an error: the fetcher degrades instead of crashing.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Upstream.URL == "" {
		return errors.New("upstream.url is required")
	}
	if cfg.Upstream.Timeout <= 0 {
		return errors.New("upstream.timeout must be positive")
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "ristretto" {
		return fmt.Errorf("cache.backend must be memory or ristretto, got %q", cfg.Cache.Backend)
	}
	if cfg.Cache.TodayTTL <= 0 || cfg.Cache.UpcomingTTL <= 0 {
		return errors.New("cache TTLs must be positive")
	}
	if cfg.Cache.SweepInterval <= 0 {
		return errors.New("cache.sweep_interval must be positive")
	}
	if cfg.Rate.RequestsPerSecond <= 0 {
		return errors.New("rate.requests_per_second must be positive")
	}
	if cfg.Rate.Burst < 1 {
		return errors.New("rate.burst must be >= 1")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
