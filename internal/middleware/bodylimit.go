package middleware

import "net/http"

// BodyLimit returns middleware that caps request body size at maxBytes.
// Oversized bodies make the JSON decoder in the handler fail, which the
// handlers report as an invalid request body.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
