package middleware

import "net/http"

// DefaultMaxRequestSize bounds request bodies. Profile updates are the
// largest payload this API accepts and they are small; 1MB leaves headroom
// for metadata blobs without inviting abuse.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize caps request body sizes. Oversized bodies are refused up
// front when Content-Length declares them, and cut off mid-read otherwise.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				respondError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
