package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

func newTestCodec() *Codec {
	return NewCodec([]byte("0123456789abcdef0123456789abcdef"))
}

// requestWithCookies copies the Set-Cookie headers a handler wrote into w
// onto a fresh request, the way a browser would echo them back on the
// next request.
func requestWithCookies(rec *httptest.ResponseRecorder) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestCodec_SetAndDecodeRoundTrip(t *testing.T) {
	codec := newTestCodec()
	rec := httptest.NewRecorder()

	require.NoError(t, codec.SetAuthCookies(rec, model.DatabaseID(42), DefaultDuration))

	r := requestWithCookies(rec)
	id, err := codec.UserIDFromRequest(r)
	require.NoError(t, err)
	assert.Equal(t, model.DatabaseID(42), id)

	expiry, err := codec.ExpiryFromRequest(r)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(DefaultDuration), expiry, 5*time.Second)
}

func TestCodec_UserIDFromRequest_MissingCookie(t *testing.T) {
	codec := newTestCodec()
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := codec.UserIDFromRequest(r)
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidCredentials, ledgererr.KindOf(err))
}

func TestCodec_ExtendIfNeeded_ExtendsWhenCandidateIsLater(t *testing.T) {
	codec := newTestCodec()
	rec := httptest.NewRecorder()
	require.NoError(t, codec.SetAuthCookies(rec, model.DatabaseID(1), time.Minute))
	r := requestWithCookies(rec)

	rec2 := httptest.NewRecorder()
	require.NoError(t, codec.ExtendIfNeeded(rec2, r, model.DatabaseID(1), time.Hour))

	require.NotEmpty(t, rec2.Result().Cookies(), "a longer candidate duration must re-emit both cookies")

	r2 := requestWithCookies(rec2)
	newExpiry, err := codec.ExpiryFromRequest(r2)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), newExpiry, 5*time.Second)
}

func TestCodec_ExtendIfNeeded_NoOpWhenCurrentExpiryIsLater(t *testing.T) {
	codec := newTestCodec()
	rec := httptest.NewRecorder()
	require.NoError(t, codec.SetAuthCookies(rec, model.DatabaseID(1), time.Hour))
	r := requestWithCookies(rec)
	originalExpiry, err := codec.ExpiryFromRequest(r)
	require.NoError(t, err)

	rec2 := httptest.NewRecorder()
	require.NoError(t, codec.ExtendIfNeeded(rec2, r, model.DatabaseID(1), time.Minute))

	assert.Empty(t, rec2.Result().Cookies(), "a shorter candidate duration than the current expiry must not shorten the session")
	_ = originalExpiry
}

func TestCodec_InvalidateAuthCookies_ExpiresImmediately(t *testing.T) {
	codec := newTestCodec()
	rec := httptest.NewRecorder()
	codec.InvalidateAuthCookies(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	for _, c := range cookies {
		assert.Equal(t, -1, c.MaxAge)
	}
}
