package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/ledger/internal/model"
)

type contextKey int

const userIDContextKey contextKey = iota

// UserIDFromContext returns the user ID placed into the request context by
// Guard/GuardHX, and false if the request never passed through either.
func UserIDFromContext(ctx context.Context) (model.DatabaseID, bool) {
	id, ok := ctx.Value(userIDContextKey).(model.DatabaseID)
	return id, ok
}

// loginRedirectPath is filled in by the router package via SetLoginPath, so
// this package doesn't need to import the endpoint table directly.
var loginRedirectPath = "/login"

// SetLoginPath configures where Guard/GuardHX send unauthenticated
// requests. Called once during router setup.
func SetLoginPath(path string) {
	loginRedirectPath = path
}

// Guard wraps a handler chain with the plain (non-HTMX) auth check: on a
// missing or invalid cookie it issues a 303 redirect to the login page;
// otherwise it extends the cookie's sliding expiry, places the user ID
// into the request context, and runs the handler (spec.md §4.6 steps
// 1-3, grounded on auth/middleware.rs's auth_guard).
func Guard(codec *Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(codec, logger, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, loginRedirectPath, http.StatusSeeOther)
	})
}

// GuardHX is the HTMX-aware variant: on auth failure it returns 200 with an
// HX-Redirect response header instead of a 303, since XHR-style htmx
// requests don't follow redirects the way a full navigation does (grounded
// on auth/middleware.rs's auth_guard_hx).
func GuardHX(codec *Codec, logger *slog.Logger) func(http.Handler) http.Handler {
	return guard(codec, logger, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("HX-Redirect", loginRedirectPath)
		w.WriteHeader(http.StatusOK)
	})
}

func guard(codec *Codec, logger *slog.Logger, onFailure func(http.ResponseWriter, *http.Request)) func(http.Handler) http.Handler {
	l := logger.With(slog.String("middleware", "auth"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := codec.UserIDFromRequest(r)
			if err != nil {
				l.DebugContext(r.Context(), "auth guard rejected request", slog.Any("error", err))
				onFailure(w, r)
				return
			}

			// Extended before the handler runs, not after: once the handler
			// writes its response headers, Set-Cookie can no longer be added
			// to them, so the sliding-expiry re-emission can't wait on the
			// handler's own output.
			if err := codec.ExtendIfNeeded(w, r, userID, DefaultDuration); err != nil {
				l.ErrorContext(r.Context(), "failed extending cookie duration", slog.Any("error", err))
			}

			ctx := context.WithValue(r.Context(), userIDContextKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
