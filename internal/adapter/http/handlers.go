package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kickoffhq/kickoff/internal/domain"
	"github.com/kickoffhq/kickoff/internal/service"
)

// degradedMessage is what clients see when the upstream fetch failed.
// The real error detail stays in the server logs.
const degradedMessage = "Service temporarily unavailable"

// MatchService is the application service consumed by the HTTP handlers.
// Fetch failures never surface as errors; they arrive as results carrying a
// non-empty Error field.
type MatchService interface {
	Today(ctx context.Context) (domain.MatchQueryResult, service.Meta)
	Upcoming(ctx context.Context) (domain.MatchQueryResult, service.Meta)
	Flush(ctx context.Context) error
}

// Handlers holds HTTP handler dependencies.
type Handlers struct {
	matches MatchService
	log     *slog.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(matches MatchService, log *slog.Logger) *Handlers {
	return &Handlers{matches: matches, log: log}
}

// matchesEnvelope is the wire shape for match queries. It carries the query
// result plus cache metadata so clients can display data freshness.
type matchesEnvelope struct {
	domain.MatchQueryResult
	Cached    bool       `json:"cached"`
	CacheTime *time.Time `json:"cacheTime,omitempty"`
	FetchTime *time.Time `json:"fetchTime,omitempty"`
}

// TodayMatches serves matches scheduled for the current calendar date.
func (h *Handlers) TodayMatches(w http.ResponseWriter, r *http.Request) {
	result, meta := h.matches.Today(r.Context())
	h.writeMatches(w, "today", result, meta)
}

// UpcomingMatches serves matches from tomorrow onward.
func (h *Handlers) UpcomingMatches(w http.ResponseWriter, r *http.Request) {
	result, meta := h.matches.Upcoming(r.Context())
	h.writeMatches(w, "upcoming", result, meta)
}

func (h *Handlers) writeMatches(w http.ResponseWriter, route string, result domain.MatchQueryResult, meta service.Meta) {
	if !result.OK() {
		h.log.Warn("serving degraded result", "route", route, "error", result.Error)
		result.Error = degradedMessage
		writeJSON(w, http.StatusServiceUnavailable, h.envelope(result, meta))
		return
	}

	writeJSON(w, http.StatusOK, h.envelope(result, meta))
}

func (h *Handlers) envelope(result domain.MatchQueryResult, meta service.Meta) matchesEnvelope {
	env := matchesEnvelope{MatchQueryResult: result, Cached: meta.Cached}
	at := meta.At
	if meta.Cached {
		env.CacheTime = &at
	} else {
		env.FetchTime = &at
	}
	return env
}

// Health reports process liveness. It never touches the cache or upstream.
func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// FlushCache drops all cached entries so the next queries hit upstream.
func (h *Handlers) FlushCache(w http.ResponseWriter, r *http.Request) {
	if err := h.matches.Flush(r.Context()); err != nil {
		h.log.Error("cache flush failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "flushed"})
}
