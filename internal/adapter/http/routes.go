package http

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/kickoffhq/kickoff/internal/middleware"
)

// MountRoutes registers all routes on the given chi router. The rate limiter
// applies to the /api subtree only; /health and static assets stay outside it
// so load balancer probes are never throttled.
func MountRoutes(r chi.Router, h *Handlers, limiter *middleware.RateLimiter, staticDir string) {
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Use(limiter.Handler)

		r.Get("/matches/today", h.TodayMatches)
		r.Get("/matches/upcoming", h.UpcomingMatches)
		r.Post("/cache/flush", h.FlushCache)
	})

	mountStatic(r, staticDir)
}

// mountStatic serves the bundled page when the directory exists. The index is
// served at the root path to keep the page and the API on one origin.
func mountStatic(r chi.Router, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		return
	}

	fs := http.FileServer(http.Dir(dir))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	})
	r.Handle("/static/*", http.StripPrefix("/static/", fs))
}
