package domain

import (
	"encoding/json"
	"time"
)

// Status is the lifecycle state of a fixture as reported by the upstream API.
type Status string

const (
	StatusScheduled Status = "SCHEDULED"
	StatusLive      Status = "LIVE"
	StatusInPlay    Status = "IN_PLAY"
	StatusPaused    Status = "PAUSED"
	StatusFinished  Status = "FINISHED"
	StatusPostponed Status = "POSTPONED"
	StatusSuspended Status = "SUSPENDED"
	StatusCancelled Status = "CANCELLED"
)

// Active reports whether the fixture is upcoming or currently being played.
// Only active fixtures are served to clients.
func (s Status) Active() bool {
	switch s {
	case StatusScheduled, StatusLive, StatusInPlay, StatusPaused:
		return true
	}
	return false
}

// Match is a single fixture record from the upstream API. Only the status
// field is inspected; the rest of the record passes through to clients
// byte-for-byte as the upstream sent it.
type Match struct {
	Status Status `json:"-"`

	raw json.RawMessage
}

// NewMatch builds a minimal match carrying only a status. Used in tests and
// anywhere a synthetic fixture is needed.
func NewMatch(status Status) Match {
	raw, _ := json.Marshal(map[string]Status{"status": status})
	return Match{Status: status, raw: raw}
}

// UnmarshalJSON keeps the original record and lifts out the status field.
func (m *Match) UnmarshalJSON(data []byte) error {
	var probe struct {
		Status Status `json:"status"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	m.Status = probe.Status
	m.raw = append(m.raw[:0], data...)
	return nil
}

// MarshalJSON re-emits the record exactly as received.
func (m Match) MarshalJSON() ([]byte, error) {
	if m.raw == nil {
		return json.Marshal(map[string]Status{"status": m.Status})
	}
	return m.raw, nil
}

// MatchQueryResult is the uniform result shape produced by the fetcher and
// stored in the cache. Invariants: Count == len(Matches), and Error is
// mutually exclusive with a non-empty Matches.
type MatchQueryResult struct {
	Matches        []Match   `json:"matches"`
	Count          int       `json:"count"`
	TotalAvailable int       `json:"totalAvailable,omitempty"`
	Error          string    `json:"error,omitempty"`
	Timestamp      time.Time `json:"timestamp,omitzero"`
}

// ErrorResult returns the degraded shape carrying only an error message.
func ErrorResult(msg string) MatchQueryResult {
	return MatchQueryResult{Matches: []Match{}, Error: msg}
}

// OK reports whether the result represents a successful fetch.
func (r MatchQueryResult) OK() bool {
	return r.Error == ""
}
