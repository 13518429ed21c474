package middleware

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// RateLimit rejects requests beyond rps (with the given burst) with 429.
// A non-positive rps disables the limiter.
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return passthrough
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusTooManyRequests, domain.KindRateLimited, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MaxInFlight caps concurrent requests at n and answers 503 once the cap is
// reached instead of queueing. n <= 0 means no cap.
func MaxInFlight(n int) func(http.Handler) http.Handler {
	if n <= 0 {
		return passthrough
	}
	slots := make(chan struct{}, n)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case slots <- struct{}{}:
				defer func() { <-slots }()
				next.ServeHTTP(w, r)
			default:
				writeError(w, http.StatusServiceUnavailable, domain.KindOverloaded, "server busy, try again later")
			}
		})
	}
}

func passthrough(next http.Handler) http.Handler {
	return next
}
