package web

import (
	"html"
	"net/http"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

// statusFor maps a ledgererr.Kind to the HTTP status the spec's error
// taxonomy implies (spec.md §7: handlers choose a full-page / fragment /
// form-rerender response based on kind; the status code is the first part
// of that choice).
func statusFor(kind ledgererr.Kind) int {
	switch kind {
	case ledgererr.InvalidCredentials, ledgererr.CookieMissing:
		return http.StatusUnauthorized
	case ledgererr.NotFound,
		ledgererr.UpdateMissingTransaction, ledgererr.UpdateMissingAccount,
		ledgererr.UpdateMissingTag, ledgererr.UpdateMissingRule,
		ledgererr.DeleteMissingTransaction, ledgererr.DeleteMissingAccount,
		ledgererr.DeleteMissingTag, ledgererr.DeleteMissingRule:
		return http.StatusNotFound
	case ledgererr.TooWeak, ledgererr.InvalidTag, ledgererr.EmptyTagName,
		ledgererr.FutureDate, ledgererr.InvalidAmount, ledgererr.DuplicateImportId, ledgererr.DuplicateAccountName,
		ledgererr.MultipartError, ledgererr.NotCSV, ledgererr.InvalidCSV,
		ledgererr.InvalidDateFormat, ledgererr.InvalidTimezone:
		return http.StatusBadRequest
	case ledgererr.DatabaseLockError:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes the kind's HTTP status and an HTML alert fragment
// carrying the escaped error message, for HTMX and plain requests alike;
// it never renders a full error page. Handlers that need
// a form re-render with field-level messages do that themselves rather
// than calling this (it's for the generic "something failed" case).
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := ledgererr.KindOf(err)
	status := statusFor(kind)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(`<div class="alert alert-error">` + html.EscapeString(err.Error()) + `</div>`))
}
