// Package footballdata provides an HTTP client for the upstream matches API.
package footballdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/kickoffhq/kickoff/internal/domain"
	"github.com/kickoffhq/kickoff/internal/resilience"
)

const (
	dateLayout = "2006-01-02"

	// defaultWindow is the span appended to dateFrom when dateTo is omitted.
	defaultWindow = 5 // days

	// userAgent identifies this service to the upstream API.
	userAgent = "kickoff-fixtures/1.0"

	// maxErrorBody bounds how much of an upstream error body is kept.
	maxErrorBody = 4 << 10
)

// Client talks to the upstream matches API. Every failure path is normalized
// into a MatchQueryResult carrying an error message; Fetch never panics or
// returns a Go error.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	breaker    *resilience.Breaker
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the default 10s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithClock replaces the wall clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient creates a matches API client. An empty token is permitted; calls
// then degrade to a "token missing" result without touching the network.
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBreaker attaches a circuit breaker to all outgoing calls.
func (c *Client) SetBreaker(b *resilience.Breaker) {
	c.breaker = b
}

// Fetch queries fixtures in [dateFrom, dateTo]. Both dates are optional ISO
// calendar dates; when dateFrom is set and dateTo is not, dateTo defaults to
// dateFrom plus five days. Only fixtures in an active status are returned;
// TotalAvailable reports the pre-filter count.
func (c *Client) Fetch(ctx context.Context, dateFrom, dateTo string) domain.MatchQueryResult {
	result, err := c.fetch(ctx, dateFrom, dateTo)
	if err != nil {
		slog.Warn("fixtures fetch failed",
			"kind", errorKind(err),
			"dateFrom", dateFrom,
			"dateTo", dateTo,
			"error", err,
		)
		return domain.ErrorResult(err.Error())
	}
	return result
}

// fetch is the tagged-error core of Fetch: it returns taxonomy-wrapped
// errors which the exported boundary converts to the degraded result shape.
func (c *Client) fetch(ctx context.Context, dateFrom, dateTo string) (domain.MatchQueryResult, error) {
	if c.token == "" {
		return domain.MatchQueryResult{}, domain.ErrMissingCredential
	}

	dateFrom, dateTo, err := normalizeRange(dateFrom, dateTo)
	if err != nil {
		return domain.MatchQueryResult{}, err
	}

	body, err := c.doRequest(ctx, dateFrom, dateTo)
	if err != nil {
		return domain.MatchQueryResult{}, err
	}

	var payload struct {
		Matches []domain.Match `json:"matches"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.MatchQueryResult{}, fmt.Errorf("%w: malformed response: %v", domain.ErrUpstream, err)
	}

	matches := make([]domain.Match, 0, len(payload.Matches))
	for _, m := range payload.Matches {
		if m.Status.Active() {
			matches = append(matches, m)
		}
	}

	return domain.MatchQueryResult{
		Matches:        matches,
		Count:          len(matches),
		TotalAvailable: len(payload.Matches),
		Timestamp:      c.now(),
	}, nil
}

// normalizeRange validates the dates and applies the default window.
func normalizeRange(dateFrom, dateTo string) (from, to string, err error) {
	var fromDay time.Time
	if dateFrom != "" {
		fromDay, err = time.Parse(dateLayout, dateFrom)
		if err != nil {
			return "", "", fmt.Errorf("%w: dateFrom %q", domain.ErrInvalidDateRange, dateFrom)
		}
	}
	if dateTo != "" {
		if _, err = time.Parse(dateLayout, dateTo); err != nil {
			return "", "", fmt.Errorf("%w: dateTo %q", domain.ErrInvalidDateRange, dateTo)
		}
	} else if dateFrom != "" {
		dateTo = fromDay.AddDate(0, 0, defaultWindow).Format(dateLayout)
	}
	return dateFrom, dateTo, nil
}

func (c *Client) doRequest(ctx context.Context, dateFrom, dateTo string) ([]byte, error) {
	var result []byte
	call := func() error {
		u, err := url.Parse(c.baseURL + "/matches")
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		q := u.Query()
		if dateFrom != "" {
			q.Set("dateFrom", dateFrom)
		}
		if dateTo != "" {
			q.Set("dateTo", dateTo)
		}
		u.RawQuery = q.Encode()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
		}
		req.Header.Set("X-Auth-Token", c.token)
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return classifyTransport(err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			detail := "response body unavailable"
			if data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); readErr == nil && len(data) > 0 {
				detail = string(data)
			}
			return fmt.Errorf("%w: status %d: %s", domain.ErrUpstream, resp.StatusCode, detail)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("%w: read response: %v", domain.ErrUpstream, err)
		}
		result = data
		return nil
	}

	if c.breaker != nil {
		if err := c.breaker.Execute(call); err != nil {
			if errors.Is(err, resilience.ErrCircuitOpen) {
				return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
			}
			return nil, err
		}
		return result, nil
	}

	if err := call(); err != nil {
		return nil, err
	}
	return result, nil
}

// classifyTransport maps a transport failure to the error taxonomy.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrNetwork, err)
}

// errorKind names the taxonomy bucket of err for logging.
func errorKind(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		return "invalid_date_range"
	case errors.Is(err, domain.ErrMissingCredential):
		return "missing_credential"
	case errors.Is(err, domain.ErrTimeout):
		return "timeout"
	case errors.Is(err, domain.ErrNetwork):
		return "network"
	case errors.Is(err, domain.ErrUpstream):
		return "upstream"
	}
	return "unknown"
}
