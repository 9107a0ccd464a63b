package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout bounds a single request end to end. The slowest
// legitimate request is a signup that polls the provider's admin read path,
// which completes well inside this window.
const DefaultRequestTimeout = 30 * time.Second

// Timeout cancels the request context and cuts the response off after the
// given duration.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		handler := http.TimeoutHandler(next, timeout, "Request Timeout")
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
