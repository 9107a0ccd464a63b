package middleware

import (
	"net/http"
	"strings"
)

// ContentType rejects write requests whose body is not declared as JSON.
// Requests without a body (e.g. an empty resend ping) pass through.
func ContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPatch, http.MethodPut:
			if r.ContentLength == 0 {
				break
			}
			contentType := strings.ToLower(r.Header.Get("Content-Type"))
			if contentType == "" {
				respondError(w, http.StatusBadRequest, "Content-Type header is required")
				return
			}
			// application/json with an optional charset parameter
			if !strings.HasPrefix(contentType, "application/json") {
				respondError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
