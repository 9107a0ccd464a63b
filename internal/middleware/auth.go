package middleware

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/anshupriya0510/EchoSkill-project/internal/request"
	"github.com/anshupriya0510/EchoSkill-project/internal/session"
)

// Auth creates authentication middleware that resolves the caller's session
// and rejects requests with no valid identity. Bearer tokens take precedence
// over the session cookie; both are handled by the resolver.
func Auth(resolver *session.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolver.Resolve(r)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Session verification failed")
				return
			}
			if identity == nil {
				respondError(w, http.StatusUnauthorized, "Not authenticated")
				return
			}

			ctx := request.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"error": message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
