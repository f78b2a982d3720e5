package logger

import "context"

// contextKey is unexported so request IDs cannot collide with values stored
// by other packages.
type contextKey struct{}

var requestIDKey = contextKey{}

// WithRequestID stores a request ID for later retrieval by the access log.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the request ID stored in ctx, or "" when none is set.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
