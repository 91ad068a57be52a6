package web

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/internal/domain/analytics"
	"github.com/FACorreiaa/ledger/internal/domain/auth"
	"github.com/FACorreiaa/ledger/internal/domain/ingest"
	"github.com/FACorreiaa/ledger/internal/domain/ledger"
	"github.com/FACorreiaa/ledger/internal/domain/tagging"
	"github.com/FACorreiaa/ledger/pkg/config"
	"github.com/FACorreiaa/ledger/pkg/db"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	t.Setenv("LEDGER_COOKIE_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("LEDGER_RATE_LIMIT_RPS", "0")
	t.Setenv("LEDGER_METRICS_ENABLED", "false")
	cfg, err := config.Load()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := db.New(db.Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	ingestRepo := ingest.NewRepository(store.Conn())
	taggerEngine := tagging.NewEngine(store, logger)
	ingestSvc := ingest.NewService(ingestRepo, store, taggerEngine, logger)

	ledgerRepo := ledger.NewRepository(store)
	ledgerSvc := ledger.NewService(ledgerRepo, cfg.Location(), logger)

	authRepo := auth.NewRepository(store.Conn())
	authSvc := auth.NewService(authRepo, auth.NewHasher(), logger)
	codec := auth.NewCodec(cfg.Auth.CookieSecret)

	analyticsRepo := analytics.NewRepository(store.Conn())

	h := NewHandlers(cfg, logger, codec, authSvc, ledgerSvc, ingestSvc, taggerEngine, analyticsRepo)
	router := NewRouter(h, store)

	// The session cookies set the Secure attribute (spec.md §4.6), which
	// net/http/cookiejar only ever attaches to https requests — a plain
	// httptest.Server would silently drop them on every round trip.
	return httptest.NewTLSServer(router)
}

func newTestClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := srv.Client()
	client.Jar = jar
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	return client
}

func TestRouter_UnauthenticatedDashboardRedirectsToLogin(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := newTestClient(t, srv).Get(srv.URL + DashboardView)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, LoginView, resp.Header.Get("Location"))
}

func TestRouter_HealthEndpointReportsOK(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RegisterLoginAndReachDashboard(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	client := newTestClient(t, srv)

	form := url.Values{
		"password":         {"Str0ng!Pass"},
		"confirm_password": {"Str0ng!Pass"},
	}
	resp, err := client.PostForm(srv.URL+RegisterAPI, form)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, DashboardView, resp.Header.Get("Location"))

	resp, err = client.Get(srv.URL + DashboardView)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouter_RegisterTwiceRejectsSecondAttempt(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	client := newTestClient(t, srv)

	form := url.Values{"password": {"Str0ng!Pass"}, "confirm_password": {"Str0ng!Pass"}}
	resp, err := client.PostForm(srv.URL+RegisterAPI, form)
	require.NoError(t, err)
	resp.Body.Close()

	resp2, err := client.PostForm(srv.URL+RegisterAPI, form)
	require.NoError(t, err)
	defer resp2.Body.Close()

	body, _ := io.ReadAll(resp2.Body)
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode)
	assert.True(t, strings.Contains(string(body), "already registered"))
}

func TestRouter_CreateTransactionAndListIt(t *testing.T) {
	srv := newTestServer(t)
	defer srv.Close()
	client := newTestClient(t, srv)

	registerForm := url.Values{"password": {"Str0ng!Pass"}, "confirm_password": {"Str0ng!Pass"}}
	resp, err := client.PostForm(srv.URL+RegisterAPI, registerForm)
	require.NoError(t, err)
	resp.Body.Close()

	txForm := url.Values{
		"amount":      {"42.00"},
		"type":        {"income"},
		"date":        {"2026-01-05"},
		"description": {"Paycheck"},
	}
	resp, err = client.PostForm(srv.URL+"/api/transactions", txForm)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	// range=year anchored on the transaction's own date guarantees it falls
	// inside the window regardless of what "today" is when the test runs.
	resp, err = client.Get(srv.URL + TransactionsView + "?range=year&anchor=2026-01-05")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Paycheck")
}
