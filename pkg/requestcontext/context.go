// Package requestcontext carries request-scoped values (request id, caller metadata
// and the request clock) from HTTP middleware down to services and stores.
//
// Services read the request clock through Now and Today so every date rule in one
// request sees the same "today":
//
//	today := requestcontext.Today(ctx)
//
// Tests pin the clock directly:
//
//	ctx = requestcontext.WithTime(ctx, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
package requestcontext

import (
	"context"
	"time"
)

type key int

const (
	requestIDKey key = iota
	clientIPKey
	userAgentKey
	requestTimeKey
)

func value[T any](ctx context.Context, k key) (T, bool) {
	v, ok := ctx.Value(k).(T)
	return v, ok
}

// RequestID returns the id assigned by the RequestID middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := value[string](ctx, requestIDKey)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ClientIP returns the caller address recorded by the metadata middleware.
func ClientIP(ctx context.Context) string {
	ip, _ := value[string](ctx, clientIPKey)
	return ip
}

func UserAgent(ctx context.Context) string {
	ua, _ := value[string](ctx, userAgentKey)
	return ua
}

// WithClientMetadata records the caller address and User-Agent.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	return context.WithValue(context.WithValue(ctx, clientIPKey, clientIP), userAgentKey, userAgent)
}

// Now returns the request clock, or the wall clock outside a request.
func Now(ctx context.Context) time.Time {
	if t, ok := value[time.Time](ctx, requestTimeKey); ok {
		return t
	}
	return time.Now()
}

// Today is the UTC calendar date of Now at midnight.
func Today(ctx context.Context) time.Time {
	y, m, d := Now(ctx).UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WithTime pins the request clock.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey, t)
}
