package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_PassesResponseThroughAndRecordsMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/ping", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("pong"))
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())

	metricsRec := httptest.NewRecorder()
	Handler().ServeHTTP(metricsRec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(metricsRec.Result().Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "ledger_http_requests_total")
	assert.Contains(t, string(body), `route="/ping"`)
	assert.True(t, strings.Contains(string(body), "ledger_http_request_duration_seconds"))
}

func TestRoutePattern_FallsBackToURLPathWithoutChiContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/no-route-context", nil)
	assert.Equal(t, "/no-route-context", routePattern(req))
}
