package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Cache.TodayTTL != 30*time.Minute {
		t.Errorf("TodayTTL = %v, want 30m", cfg.Cache.TodayTTL)
	}
	if cfg.Cache.UpcomingTTL != 5*time.Minute {
		t.Errorf("UpcomingTTL = %v, want 5m", cfg.Cache.UpcomingTTL)
	}
	if cfg.Upstream.Timeout != 10*time.Second {
		t.Errorf("Upstream.Timeout = %v, want 10s", cfg.Upstream.Timeout)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Cache.Backend)
	}
	if cfg.Upstream.Token != "" {
		t.Errorf("Token = %q, want empty", cfg.Upstream.Token)
	}
}

func TestLoadFromYAMLOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickoff.yaml")
	data := `
server:
  port: "9090"
cache:
  today_ttl: 15m
  backend: ristretto
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Cache.TodayTTL != 15*time.Minute {
		t.Errorf("TodayTTL = %v, want 15m", cfg.Cache.TodayTTL)
	}
	if cfg.Cache.Backend != "ristretto" {
		t.Errorf("Backend = %q, want ristretto", cfg.Cache.Backend)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %q, want debug", cfg.Logging.Level)
	}
	// Untouched keys keep defaults.
	if cfg.Cache.UpcomingTTL != 5*time.Minute {
		t.Errorf("UpcomingTTL = %v, want 5m", cfg.Cache.UpcomingTTL)
	}
}

func TestLoadFromEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickoff.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"9090\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("KICKOFF_PORT", "7070")
	t.Setenv("FOOTBALL_DATA_TOKEN", "secret-token")
	t.Setenv("KICKOFF_CACHE_UPCOMING_TTL", "90s")
	t.Setenv("KICKOFF_RATE_RPS", "2.5")
	t.Setenv("KICKOFF_OTEL_ENABLED", "true")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("Port = %q, want 7070 (env over yaml)", cfg.Server.Port)
	}
	if cfg.Upstream.Token != "secret-token" {
		t.Errorf("Token = %q, want secret-token", cfg.Upstream.Token)
	}
	if cfg.Cache.UpcomingTTL != 90*time.Second {
		t.Errorf("UpcomingTTL = %v, want 90s", cfg.Cache.UpcomingTTL)
	}
	if cfg.Rate.RequestsPerSecond != 2.5 {
		t.Errorf("RequestsPerSecond = %v, want 2.5", cfg.Rate.RequestsPerSecond)
	}
	if !cfg.Otel.Enabled {
		t.Error("Otel.Enabled = false, want true")
	}
}

func TestLoadFromInvalidEnvIgnored(t *testing.T) {
	t.Setenv("KICKOFF_CACHE_TODAY_TTL", "not-a-duration")
	t.Setenv("KICKOFF_RATE_BURST", "not-a-number")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}

	if cfg.Cache.TodayTTL != 30*time.Minute {
		t.Errorf("TodayTTL = %v, want default 30m", cfg.Cache.TodayTTL)
	}
	if cfg.Rate.Burst != 30 {
		t.Errorf("Burst = %d, want default 30", cfg.Rate.Burst)
	}
}

func TestLoadFromMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kickoff.yaml")
	if err := os.WriteFile(path, []byte("server: [not a map"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFrom(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults valid", func(*Config) {}, false},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
		{"empty upstream url", func(c *Config) { c.Upstream.URL = "" }, true},
		{"zero upstream timeout", func(c *Config) { c.Upstream.Timeout = 0 }, true},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, true},
		{"zero today ttl", func(c *Config) { c.Cache.TodayTTL = 0 }, true},
		{"zero upcoming ttl", func(c *Config) { c.Cache.UpcomingTTL = 0 }, true},
		{"zero sweep interval", func(c *Config) { c.Cache.SweepInterval = 0 }, true},
		{"zero rate", func(c *Config) { c.Rate.RequestsPerSecond = 0 }, true},
		{"zero burst", func(c *Config) { c.Rate.Burst = 0 }, true},
		{"zero breaker failures", func(c *Config) { c.Breaker.MaxFailures = 0 }, true},
		{"missing token ok", func(c *Config) { c.Upstream.Token = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := validate(&cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
