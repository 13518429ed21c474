package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// APIKeyAuth creates a middleware that validates API key authentication.
// The key may be sent as X-API-Key, as a Bearer token, or as ?key=.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Check X-API-Key header
			key := r.Header.Get("X-API-Key")
			if key == "" {
				// Also check Authorization header with Bearer scheme
				auth := r.Header.Get("Authorization")
				if len(auth) > 7 && auth[:7] == "Bearer " {
					key = auth[7:]
				}
			}
			if key == "" {
				key = r.URL.Query().Get("key")
			}

			if key == "" {
				writeError(w, http.StatusUnauthorized, domain.KindUnauthorized, "missing API key")
				return
			}

			// Constant-time comparison to prevent timing attacks
			if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
				writeError(w, http.StatusUnauthorized, domain.KindUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
