package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		kind ledgererr.Kind
		want int
	}{
		{ledgererr.InvalidCredentials, http.StatusUnauthorized},
		{ledgererr.CookieMissing, http.StatusUnauthorized},
		{ledgererr.NotFound, http.StatusNotFound},
		{ledgererr.UpdateMissingTransaction, http.StatusNotFound},
		{ledgererr.DeleteMissingRule, http.StatusNotFound},
		{ledgererr.InvalidAmount, http.StatusBadRequest},
		{ledgererr.TooWeak, http.StatusBadRequest},
		{ledgererr.InvalidCSV, http.StatusBadRequest},
		{ledgererr.DatabaseLockError, http.StatusServiceUnavailable},
		{ledgererr.SqlError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.kind), "kind %v", tc.kind)
	}
}

func TestWriteError_EscapesMessageAndSetsStatus(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x", nil)
	rec := httptest.NewRecorder()

	writeError(rec, r, ledgererr.New(ledgererr.InvalidAmount, "<bad>"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "&lt;bad&gt;")
}
