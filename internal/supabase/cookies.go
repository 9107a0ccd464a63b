package supabase

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// accessTokenCookie is the cookie this server sets after signin. Session
// resolution also understands the chunked sb-<ref>-auth-token cookies
// written by the provider's SSR libraries, so a browser that signed in
// through a frontend integration is recognized too.
const accessTokenCookie = "sb-access-token"

// sessionCookieTTL matches the provider's default access token lifetime.
const sessionCookieTTL = 3600

// SessionCookie builds the session cookie set after a successful signin.
func (c *Client) SessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   sessionCookieTTL,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// SessionToken extracts the provider session token from request cookies.
func (c *Client) SessionToken(r *http.Request) (string, bool) {
	if cookie, err := r.Cookie(accessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}

	// SSR cookies: sb-<ref>-auth-token, possibly split into .0, .1, ...
	// chunks to stay under per-cookie size limits.
	chunks := map[string]map[int]string{}
	whole := map[string]string{}
	for _, cookie := range r.Cookies() {
		name := cookie.Name
		if !strings.HasPrefix(name, "sb-") {
			continue
		}
		if strings.HasSuffix(name, "-auth-token") {
			whole[name] = cookie.Value
			continue
		}
		base, idx, ok := splitChunkName(name)
		if !ok {
			continue
		}
		if chunks[base] == nil {
			chunks[base] = map[int]string{}
		}
		chunks[base][idx] = cookie.Value
	}

	for _, parts := range chunks {
		indexes := make([]int, 0, len(parts))
		for i := range parts {
			indexes = append(indexes, i)
		}
		sort.Ints(indexes)
		var joined strings.Builder
		for _, i := range indexes {
			joined.WriteString(parts[i])
		}
		if token, ok := accessTokenFromCookieValue(joined.String()); ok {
			return token, true
		}
	}
	for _, value := range whole {
		if token, ok := accessTokenFromCookieValue(value); ok {
			return token, true
		}
	}
	return "", false
}

// splitChunkName splits sb-<ref>-auth-token.N into its base name and index.
func splitChunkName(name string) (string, int, bool) {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return "", 0, false
	}
	base := name[:dot]
	if !strings.HasSuffix(base, "-auth-token") {
		return "", 0, false
	}
	idx, err := strconv.Atoi(name[dot+1:])
	if err != nil {
		return "", 0, false
	}
	return base, idx, true
}

// accessTokenFromCookieValue decodes an SSR auth cookie value: either raw
// JSON or base64-<base64url(JSON)>, where the JSON carries access_token.
func accessTokenFromCookieValue(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	// Browser integrations percent-encode the JSON to keep it cookie-safe.
	if strings.Contains(value, "%") {
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
	}
	if strings.HasPrefix(value, "base64-") {
		encoded := strings.TrimPrefix(value, "base64-")
		decoded, err := base64.RawURLEncoding.DecodeString(encoded)
		if err != nil {
			if decoded, err = base64.StdEncoding.DecodeString(encoded); err != nil {
				return "", false
			}
		}
		value = string(decoded)
	}

	var session struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(value), &session); err == nil && session.AccessToken != "" {
		return session.AccessToken, true
	}

	// Some integrations store the bare JWT.
	if strings.Count(value, ".") == 2 && !strings.ContainsAny(value, "{}") {
		return value, true
	}
	return "", false
}
