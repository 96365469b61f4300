package middleware

import (
	"log"
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware throttles the endpoints it wraps (login, register)
// with a shared token bucket.
func RateLimitMiddleware(limiter *rate.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				log.Printf("ERROR: Rate limit exceeded for %s %s from %s", r.Method, r.URL.Path, r.RemoteAddr)
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
