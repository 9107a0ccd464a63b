package middleware

import (
	"net/http"

	"go.uber.org/zap"
)

// ErrorHandler recovers from handler panics. The panic value and stack stay
// in the log; the client only ever sees a generic envelope.
func ErrorHandler(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("panic_recovered",
						zap.Any("panic", rec),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					respondError(w, http.StatusInternalServerError, "An unexpected error occurred")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
