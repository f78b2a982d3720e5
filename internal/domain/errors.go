package domain

import "errors"

// Sentinel errors for the upstream fetch taxonomy. All of them are converted
// to a MatchQueryResult carrying an error string before leaving the fetcher;
// handlers never see them directly.

// ErrInvalidDateRange indicates a malformed dateFrom or dateTo input.
var ErrInvalidDateRange = errors.New("invalid date range")

// ErrMissingCredential indicates no upstream API token is configured.
// The message is served verbatim to clients of the degraded result.
var ErrMissingCredential = errors.New("API token missing")

// ErrUpstream indicates a non-2xx or malformed upstream response.
var ErrUpstream = errors.New("upstream error")

// ErrTimeout indicates the upstream call exceeded its deadline.
var ErrTimeout = errors.New("upstream timeout")

// ErrNetwork indicates a transport-level failure reaching upstream.
var ErrNetwork = errors.New("network error")
