//go:build integration

// Package integration_test runs API-level tests against the full router with
// a stubbed upstream matches API.
// Run with: go test -tags=integration ./tests/integration/...
package integration_test

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/kickoffhq/kickoff/internal/adapter/footballdata"
	kohttp "github.com/kickoffhq/kickoff/internal/adapter/http"
	"github.com/kickoffhq/kickoff/internal/adapter/memory"
	"github.com/kickoffhq/kickoff/internal/middleware"
	"github.com/kickoffhq/kickoff/internal/service"
)

var (
	testServer *httptest.Server
	upstream   *stubUpstream
)

// stubUpstream mimics the matches API. The fail flag lets tests simulate
// outages without restarting the server.
type stubUpstream struct {
	srv   *httptest.Server
	calls atomic.Int64
	fail  atomic.Bool
}

func (s *stubUpstream) handler(w http.ResponseWriter, _ *http.Request) {
	s.calls.Add(1)
	if s.fail.Load() {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "upstream exploded")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"matches": [
		{"status": "SCHEDULED", "utcDate": "2025-03-14T20:00:00Z",
		 "homeTeam": {"name": "Arsenal"}, "awayTeam": {"name": "Chelsea"}},
		{"status": "IN_PLAY", "utcDate": "2025-03-14T18:00:00Z",
		 "homeTeam": {"name": "Leeds"}, "awayTeam": {"name": "Everton"}},
		{"status": "FINISHED", "utcDate": "2025-03-14T12:00:00Z",
		 "homeTeam": {"name": "Fulham"}, "awayTeam": {"name": "Brentford"}}
	]}`)
}

// newRouter wires the real middleware and handler stack against the stub.
func newRouter(upstreamURL string, rate float64, burst int) chi.Router {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.New()
	fetcher := footballdata.NewClient(upstreamURL, "test-token")
	matches := service.NewMatches(store, fetcher, service.TTLs{
		Today:    30 * time.Minute,
		Upcoming: 5 * time.Minute,
	})

	limiter := middleware.NewRateLimiter(rate, burst)
	handlers := kohttp.NewHandlers(matches, log)

	r := chi.NewRouter()
	r.Use(kohttp.CORS("*"))
	r.Use(middleware.RequestID)
	r.Use(chimw.Recoverer)
	kohttp.MountRoutes(r, handlers, limiter, "")

	return r
}

func TestMain(m *testing.M) {
	upstream = &stubUpstream{}
	upstream.srv = httptest.NewServer(http.HandlerFunc(upstream.handler))

	testServer = httptest.NewServer(newRouter(upstream.srv.URL, 1000, 1000))

	code := m.Run()

	testServer.Close()
	upstream.srv.Close()
	os.Exit(code)
}

// flushCache resets the shared server's cache between tests.
func flushCache(t *testing.T) {
	t.Helper()
	resp, err := http.Post(testServer.URL+"/api/cache/flush", "application/json", nil)
	if err != nil {
		t.Fatalf("POST /api/cache/flush: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("flush: expected 200, got %d", resp.StatusCode)
	}
}
