package web

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/FACorreiaa/ledger/pkg/config"
)

// RateLimit applies a single process-wide token bucket, grounded on the
// teacher's router.go use of golang.org/x/time/rate. A single bucket
// (rather than per-client) matches the single-user deployment model this
// service targets: there is exactly one real client, so there is nothing
// to key a per-client limiter on.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	if cfg.RequestsPerSecond <= 0 || cfg.Burst <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
