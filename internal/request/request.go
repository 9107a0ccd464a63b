package request

import (
	"context"
	"net/http"
	"strings"

	"github.com/anshupriya0510/EchoSkill-project/internal/models"
)

type contextKey string

const identityContextKey contextKey = "identity"

// Identity is a resolved caller: the account plus the session token that
// authenticated it. The token is carried so downstream profile writes stay
// scoped to the caller's own session.
type Identity struct {
	Account *models.Account
	Token   string
}

// ClientIP extracts the client IP from the request, respecting X-Forwarded-For and X-Real-IP.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return r.RemoteAddr
}

// BearerToken returns the token from an Authorization: Bearer header, if any.
func BearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return "", false
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Origin reconstructs the request origin for building redirect URLs.
func Origin(r *http.Request) string {
	if r.Host == "" {
		return ""
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	return scheme + "://" + r.Host
}

// WithIdentity returns a context with the resolved identity attached.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext returns the resolved identity, or nil if the request
// was not authenticated.
func IdentityFromContext(r *http.Request) *Identity {
	id, _ := r.Context().Value(identityContextKey).(*Identity)
	return id
}
