// Package observability provides the Prometheus request metrics and the
// /metrics endpoint named in spec.md A4, adapted from the teacher's
// connect-rpc interceptor into a chi middleware over the router's own
// request/response cycle.
package observability

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal tracks total number of HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "code"},
	)

	// RequestDuration tracks request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// ActiveRequests tracks currently in-flight requests.
	ActiveRequests = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "ledger_http_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"route"},
	)
)

// Middleware records RequestsTotal/RequestDuration for every request, keyed
// by the chi route pattern (not the raw URL, to keep cardinality bounded)
// and method. chi fills in the pattern while routing, so it is read after
// next has run. ActiveRequests is labeled before routing, when routePattern
// still falls back to the raw URL path.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		activeRoute := routePattern(r)

		ActiveRequests.WithLabelValues(activeRoute).Inc()
		defer ActiveRequests.WithLabelValues(activeRoute).Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := routePattern(r)
		duration := time.Since(start).Seconds()
		RequestDuration.WithLabelValues(route, r.Method).Observe(duration)
		RequestsTotal.WithLabelValues(route, r.Method, http.StatusText(ww.Status())).Inc()
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// Handler exposes the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
