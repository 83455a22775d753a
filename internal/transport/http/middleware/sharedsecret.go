package middleware

import (
	"crypto/subtle"
	"net/http"
)

// SharedSecret guards internal endpoints hit by external schedulers. The
// caller proves itself with the X-Api-Secret header; an unconfigured secret
// closes the endpoint instead of opening it.
func SharedSecret(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeJSONError(w, http.StatusServiceUnavailable, "endpoint not configured")
				return
			}
			got := r.Header.Get("X-Api-Secret")
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
