package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kickoffhq/kickoff/internal/domain"
	"github.com/kickoffhq/kickoff/internal/service"
)

type stubService struct {
	result domain.MatchQueryResult
	meta   service.Meta
	err    error

	flushed bool
}

func (s *stubService) Today(context.Context) (domain.MatchQueryResult, service.Meta) {
	return s.result, s.meta
}

func (s *stubService) Upcoming(context.Context) (domain.MatchQueryResult, service.Meta) {
	return s.result, s.meta
}

func (s *stubService) Flush(context.Context) error {
	s.flushed = true
	return s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func okResult(t *testing.T) domain.MatchQueryResult {
	t.Helper()
	return domain.MatchQueryResult{
		Matches:        []domain.Match{domain.NewMatch(domain.StatusScheduled)},
		Count:          1,
		TotalAvailable: 3,
		Timestamp:      time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
	}
}

func TestTodayMatchesOK(t *testing.T) {
	at := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	svc := &stubService{result: okResult(t), meta: service.Meta{Cached: false, At: at}}
	h := NewHandlers(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.TodayMatches(rec, httptest.NewRequest("GET", "/api/matches/today", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Count     int        `json:"count"`
		Cached    bool       `json:"cached"`
		FetchTime *time.Time `json:"fetchTime"`
		CacheTime *time.Time `json:"cacheTime"`
		Error     string     `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 {
		t.Errorf("count = %d, want 1", body.Count)
	}
	if body.Cached {
		t.Error("cached = true, want false")
	}
	if body.FetchTime == nil || !body.FetchTime.Equal(at) {
		t.Errorf("fetchTime = %v, want %v", body.FetchTime, at)
	}
	if body.CacheTime != nil {
		t.Error("cacheTime should be omitted on a fresh fetch")
	}
	if body.Error != "" {
		t.Errorf("error = %q, want empty", body.Error)
	}
}

func TestTodayMatchesCachedReportsCacheTime(t *testing.T) {
	at := time.Date(2025, 3, 14, 11, 45, 0, 0, time.UTC)
	svc := &stubService{result: okResult(t), meta: service.Meta{Cached: true, At: at}}
	h := NewHandlers(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.TodayMatches(rec, httptest.NewRequest("GET", "/api/matches/today", nil))

	var body struct {
		Cached    bool       `json:"cached"`
		CacheTime *time.Time `json:"cacheTime"`
		FetchTime *time.Time `json:"fetchTime"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Cached {
		t.Error("cached = false, want true")
	}
	if body.CacheTime == nil || !body.CacheTime.Equal(at) {
		t.Errorf("cacheTime = %v, want %v", body.CacheTime, at)
	}
	if body.FetchTime != nil {
		t.Error("fetchTime should be omitted on a cache hit")
	}
}

func TestUpcomingMatchesDegradedResult(t *testing.T) {
	svc := &stubService{
		result: domain.ErrorResult("upstream error: status 500"),
		meta:   service.Meta{Cached: false, At: time.Now()},
	}
	h := NewHandlers(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.UpcomingMatches(rec, httptest.NewRequest("GET", "/api/matches/upcoming", nil))

	if rec.Code != 503 {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var body struct {
		Error   string         `json:"error"`
		Matches []domain.Match `json:"matches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Service temporarily unavailable" {
		t.Errorf("error = %q, internal detail must not leak", body.Error)
	}
	if len(body.Matches) != 0 {
		t.Errorf("matches = %d, want 0", len(body.Matches))
	}
}

func TestHealth(t *testing.T) {
	h := NewHandlers(&stubService{}, discardLogger())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"status\":\"ok\"}\n" {
		t.Errorf("body = %q", got)
	}
}

func TestFlushCacheError(t *testing.T) {
	svc := &stubService{err: errors.New("cache backend down")}
	h := NewHandlers(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.FlushCache(rec, httptest.NewRequest("POST", "/api/cache/flush", nil))

	if rec.Code != 500 {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
}

func TestFlushCache(t *testing.T) {
	svc := &stubService{}
	h := NewHandlers(svc, discardLogger())

	rec := httptest.NewRecorder()
	h.FlushCache(rec, httptest.NewRequest("POST", "/api/cache/flush", nil))

	if rec.Code != 200 {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !svc.flushed {
		t.Error("service flush was not called")
	}
}
