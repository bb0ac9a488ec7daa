package testutil

import (
	"net/http"
	"time"

	"stargate/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped clock, which fixes "today" for duty
// date rules. This simulates the requesttime middleware.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
