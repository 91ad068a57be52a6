// Package auth implements the encrypted-cookie session layer: credential
// verification, the authenticated cookie pair, sliding expiry, and the
// route guards that enforce it.
package auth

import (
	"crypto/sha256"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

const (
	cookieUserID = "user_id"
	cookieExpiry = "expiry"

	// DefaultDuration is the session lifetime granted on a normal login
	// and re-asserted on every sliding-expiry extension.
	DefaultDuration = 5 * time.Minute
	// RememberMeDuration replaces DefaultDuration when the login form's
	// "remember me" field is set.
	RememberMeDuration = 7 * 24 * time.Hour

	expiryLayout = time.RFC3339Nano
)

// Codec encrypts and authenticates both session cookies with a process-wide
// key derived from the configured secret, replacing the Rust
// axum_extra::PrivateCookieJar (AES-GCM + HMAC) with the idiomatic Go
// equivalent from the same dependency family the teacher already ships.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec derives a hash key and a block key from secret. secret should be
// at least 32 bytes of random data (validated by pkg/config at startup); the
// two keys are domain-separated so neither can be recovered from the other.
func NewCodec(secret []byte) *Codec {
	hashKey := sha256.Sum256(append([]byte("ledger-cookie-hash:"), secret...))
	blockKey := sha256.Sum256(append([]byte("ledger-cookie-block:"), secret...))
	return &Codec{sc: securecookie.New(hashKey[:], blockKey[:])}
}

// SetAuthCookies sets both cookies, expiring duration from now (spec.md
// §4.6: "Two cookies form one logical session ... both encrypted and
// authenticated").
func (c *Codec) SetAuthCookies(w http.ResponseWriter, userID model.DatabaseID, duration time.Duration) error {
	expiry := time.Now().UTC().Add(duration)
	return c.setCookiesAt(w, userID, expiry)
}

// InvalidateAuthCookies emits both cookies with an empty value and
// Max-Age=0 / expires=epoch, which deletes them client-side (spec.md §4.6
// Logout).
func (c *Codec) InvalidateAuthCookies(w http.ResponseWriter) {
	for _, name := range []string{cookieUserID, cookieExpiry} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			MaxAge:   -1,
			Secure:   true,
			HttpOnly: true,
			SameSite: http.SameSiteStrictMode,
		})
	}
}

// UserIDFromRequest decodes the user_id cookie, returning
// ledgererr.InvalidCredentials if it is missing or cannot be decoded —
// spec.md §4.6 deliberately does not distinguish "no cookie" from "bad
// cookie" at this layer.
func (c *Codec) UserIDFromRequest(r *http.Request) (model.DatabaseID, error) {
	cookie, err := r.Cookie(cookieUserID)
	if err != nil {
		return 0, ledgererr.New(ledgererr.InvalidCredentials, "auth cookie missing")
	}

	var raw string
	if err := c.sc.Decode(cookieUserID, cookie.Value, &raw); err != nil {
		return 0, ledgererr.Wrap(ledgererr.InvalidCredentials, "auth cookie invalid", err)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ledgererr.Wrap(ledgererr.InvalidCredentials, "auth cookie value malformed", err)
	}
	return model.DatabaseID(id), nil
}

// ExpiryFromRequest decodes the expiry cookie. Returns ledgererr.CookieMissing
// if either cookie is absent, matching Error::CookieMissing from
// auth/cookie.rs.
func (c *Codec) ExpiryFromRequest(r *http.Request) (time.Time, error) {
	userCookie, err := r.Cookie(cookieUserID)
	if err != nil {
		return time.Time{}, ledgererr.New(ledgererr.CookieMissing, "auth cookie missing")
	}
	expiryCookie, err := r.Cookie(cookieExpiry)
	if err != nil {
		return time.Time{}, ledgererr.New(ledgererr.CookieMissing, "expiry cookie missing")
	}

	var userRaw string
	if err := c.sc.Decode(cookieUserID, userCookie.Value, &userRaw); err != nil {
		return time.Time{}, ledgererr.New(ledgererr.CookieMissing, "auth cookie missing")
	}

	var expiryRaw string
	if err := c.sc.Decode(cookieExpiry, expiryCookie.Value, &expiryRaw); err != nil {
		return time.Time{}, ledgererr.Wrap(ledgererr.InvalidDateFormat, "decode expiry cookie", err)
	}
	expiry, err := time.Parse(expiryLayout, expiryRaw)
	if err != nil {
		return time.Time{}, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse expiry cookie timestamp", err)
	}
	return expiry, nil
}

// ExtendIfNeeded re-emits both cookies with
// new_expiry = max(current_expiry, now+duration), and does nothing if that
// is not later than the current expiry (spec.md §4.6 step 3: "a 10-minute-
// old valid cookie is not shortened"). It needs the still-valid user_id
// cookie from the request to re-encode it under the new expiry.
func (c *Codec) ExtendIfNeeded(w http.ResponseWriter, r *http.Request, userID model.DatabaseID, duration time.Duration) error {
	currentExpiry, err := c.ExpiryFromRequest(r)
	if err != nil {
		return err
	}

	candidate := time.Now().UTC().Add(duration)
	newExpiry := currentExpiry
	if candidate.After(currentExpiry) {
		newExpiry = candidate
	}
	if !newExpiry.After(currentExpiry) {
		return nil
	}
	return c.setCookiesAt(w, userID, newExpiry)
}

func (c *Codec) setCookiesAt(w http.ResponseWriter, userID model.DatabaseID, expiry time.Time) error {
	userValue, err := c.sc.Encode(cookieUserID, strconv.FormatInt(int64(userID), 10))
	if err != nil {
		return ledgererr.Wrap(ledgererr.InvalidDateFormat, "encode auth cookie", err)
	}
	expiryValue, err := c.sc.Encode(cookieExpiry, expiry.Format(expiryLayout))
	if err != nil {
		return ledgererr.Wrap(ledgererr.InvalidDateFormat, "encode expiry cookie", err)
	}

	maxAge := int(time.Until(expiry).Seconds())
	// re-assert Secure/HttpOnly/SameSite/Max-Age on every emission: clients
	// only echo back the name=value pair, never the original attributes.
	http.SetCookie(w, &http.Cookie{
		Name:     cookieUserID,
		Value:    userValue,
		Path:     "/",
		Expires:  expiry,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieExpiry,
		Value:    expiryValue,
		Path:     "/",
		Expires:  expiry,
		MaxAge:   maxAge,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}
