package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

func formRequest(t *testing.T, values url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(values.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestTransactionAmount_ExpenseIsNegated(t *testing.T) {
	r := formRequest(t, url.Values{"amount": {"12.50"}, "type": {"expense"}})
	amount, err := transactionAmount(r)
	require.NoError(t, err)
	assert.Equal(t, -12.50, amount)
}

func TestTransactionAmount_IncomeStaysPositive(t *testing.T) {
	r := formRequest(t, url.Values{"amount": {"12.50"}, "type": {"income"}})
	amount, err := transactionAmount(r)
	require.NoError(t, err)
	assert.Equal(t, 12.50, amount)
}

func TestTransactionAmount_BelowMinimumRejected(t *testing.T) {
	r := formRequest(t, url.Values{"amount": {"0.001"}, "type": {"income"}})
	_, err := transactionAmount(r)
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidAmount, ledgererr.KindOf(err))
}

func TestTransactionAmount_NonNumericRejected(t *testing.T) {
	r := formRequest(t, url.Values{"amount": {"not-a-number"}, "type": {"income"}})
	_, err := transactionAmount(r)
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidAmount, ledgererr.KindOf(err))
}

func TestTransactionDate_ValidFormat(t *testing.T) {
	r := formRequest(t, url.Values{"date": {"2026-03-05"}})
	d, err := transactionDate(r)
	require.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, 3, int(d.Month()))
	assert.Equal(t, 5, d.Day())
}

func TestTransactionDate_InvalidFormat(t *testing.T) {
	r := formRequest(t, url.Values{"date": {"03/05/2026"}})
	_, err := transactionDate(r)
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidDateFormat, ledgererr.KindOf(err))
}

func TestOptionalTagID_EmptyReturnsNil(t *testing.T) {
	r := formRequest(t, url.Values{"tag_id": {""}})
	id, err := optionalTagID(r, "tag_id")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestOptionalTagID_InvalidRejected(t *testing.T) {
	r := formRequest(t, url.Values{"tag_id": {"abc"}})
	_, err := optionalTagID(r, "tag_id")
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidTag, ledgererr.KindOf(err))
}

func TestIdFromPath(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/x/42", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "42")
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	id, err := idFromPath(r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), int64(id))
}
