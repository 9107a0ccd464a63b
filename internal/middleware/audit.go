package middleware

import (
	"net/http"

	"go.uber.org/zap"

	logpkg "github.com/anshupriya0510/EchoSkill-project/internal/logger"
	"github.com/anshupriya0510/EchoSkill-project/internal/request"
)

// Audit logs rejected requests: failed authentication or authorization and
// rate limit hits. The client IP is recorded so repeated probing of the
// admin surface or the auth endpoints is visible in one place.
func Audit(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			switch recorder.status {
			case http.StatusUnauthorized, http.StatusForbidden:
				logger.Warn("security_event",
					zap.Int("status_code", recorder.status),
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("ip", logpkg.SanitizeString(request.ClientIP(r), logpkg.MaxGeneralStringLength)),
				)
			case http.StatusTooManyRequests:
				logger.Warn("rate_limit_violation",
					zap.String("method", r.Method),
					zap.String("path", logpkg.SanitizePath(r.URL.Path)),
					zap.String("ip", logpkg.SanitizeString(request.ClientIP(r), logpkg.MaxGeneralStringLength)),
				)
			}
		})
	}
}
