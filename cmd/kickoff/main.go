package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kickoffhq/kickoff/internal/adapter/footballdata"
	kohttp "github.com/kickoffhq/kickoff/internal/adapter/http"
	"github.com/kickoffhq/kickoff/internal/adapter/memory"
	kootel "github.com/kickoffhq/kickoff/internal/adapter/otel"
	"github.com/kickoffhq/kickoff/internal/adapter/ristretto"
	"github.com/kickoffhq/kickoff/internal/config"
	"github.com/kickoffhq/kickoff/internal/logger"
	"github.com/kickoffhq/kickoff/internal/middleware"
	"github.com/kickoffhq/kickoff/internal/port/cache"
	"github.com/kickoffhq/kickoff/internal/resilience"
	"github.com/kickoffhq/kickoff/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log := logger.New(cfg.Logging)
	slog.SetDefault(log)

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"cache_backend", cfg.Cache.Backend,
		"today_ttl", cfg.Cache.TodayTTL,
		"upcoming_ttl", cfg.Cache.UpcomingTTL,
	)

	if cfg.Upstream.Token == "" {
		slog.Warn("no upstream token configured, match queries will serve degraded results")
	}

	ctx := context.Background()

	// --- Observability ---

	if cfg.Otel.Enabled {
		shutdown, err := kootel.Init(ctx, cfg.Logging.Service, cfg.Otel.Endpoint)
		if err != nil {
			return fmt.Errorf("otel: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Error("otel shutdown", "error", err)
			}
		}()
		slog.Info("otel export enabled", "endpoint", cfg.Otel.Endpoint)
	}

	metrics, err := kootel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Cache ---

	var store cache.Cache
	switch cfg.Cache.Backend {
	case "ristretto":
		rc, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
		if err != nil {
			return fmt.Errorf("ristretto: %w", err)
		}
		defer rc.Close()
		store = rc
	default:
		mc := memory.New()
		stopSweep := mc.StartSweep(cfg.Cache.SweepInterval)
		defer stopSweep()
		store = mc
	}

	// --- Upstream client ---

	breaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	fetcher := footballdata.NewClient(cfg.Upstream.URL, cfg.Upstream.Token,
		footballdata.WithTimeout(cfg.Upstream.Timeout))
	fetcher.SetBreaker(breaker)

	// --- Services ---

	matches := service.NewMatches(store, fetcher, service.TTLs{
		Today:    cfg.Cache.TodayTTL,
		Upcoming: cfg.Cache.UpcomingTTL,
	}, service.WithMetrics(metrics))

	// --- HTTP ---

	limiter := middleware.NewRateLimiter(cfg.Rate.RequestsPerSecond, cfg.Rate.Burst)
	stopCleanup := limiter.StartCleanup(cfg.Rate.CleanupInterval, cfg.Rate.MaxIdleTime)
	defer stopCleanup()

	handlers := kohttp.NewHandlers(matches, log)

	r := chi.NewRouter()

	r.Use(kohttp.CORS(cfg.Server.CORSOrigin))
	r.Use(kohttp.SecurityHeaders)
	r.Use(middleware.RequestID)
	r.Use(kohttp.Logger)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if cfg.Otel.Enabled {
		r.Use(kootel.HTTPMiddleware(cfg.Logging.Service))
	}

	kohttp.MountRoutes(r, handlers, limiter, cfg.Server.StaticDir)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return shutdown(shutdownCtx, srv, matches)
}

// shutdown drains in-flight requests, then flushes the cache exactly once
// before the process exits.
func shutdown(ctx context.Context, srv *http.Server, matches *service.Matches) error {
	err := srv.Shutdown(ctx)

	if flushErr := matches.Flush(ctx); flushErr != nil {
		slog.Error("cache flush on shutdown", "error", flushErr)
	} else {
		slog.Info("cache flushed")
	}

	return err
}
