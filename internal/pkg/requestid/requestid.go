// Package requestid carries the per-request correlation id through contexts.
package requestid

import "context"

// Header is the HTTP header carrying the request id
const Header = "X-Request-ID"

type ctxKey struct{}

// WithID returns a copy of ctx carrying id
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the request id stored in ctx, or ""
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}
