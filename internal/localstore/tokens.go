package localstore

import (
	"fmt"
	"net/http"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

const (
	tokenIssuer   = "skillecho-local"
	tokenLifetime = 24 * time.Hour
	sessionCookie = "skillecho_session"
)

// signToken issues an HS256 session token for a user id. The hosted
// provider issues its own JWTs; the fallback mints equivalent ones so the
// session resolver works identically in both modes.
func (s *Store) signToken(userID string) (string, error) {
	now := time.Now()
	token, err := jwt.NewBuilder().
		Issuer(tokenIssuer).
		Subject(userID).
		IssuedAt(now).
		Expiration(now.Add(tokenLifetime)).
		Build()
	if err != nil {
		return "", fmt.Errorf("failed to build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return string(signed), nil
}

// verifyToken validates a session token and returns the user id it names.
func (s *Store) verifyToken(raw string) (string, error) {
	if raw == "" {
		return "", fmt.Errorf("empty token")
	}

	token, err := jwt.Parse([]byte(raw),
		jwt.WithKey(jwa.HS256, s.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(tokenIssuer),
	)
	if err != nil {
		return "", fmt.Errorf("invalid session token: %w", err)
	}
	return token.Subject(), nil
}

// SessionCookie builds the fallback session cookie.
func (s *Store) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(tokenLifetime / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionToken extracts the fallback session token from request cookies.
func (s *Store) SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
