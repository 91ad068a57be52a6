package auth

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

// minPasswordLength mirrors the teacher's ErrPasswordTooShort threshold.
const minPasswordLength = 8

// Hasher is the abstract PasswordHasher capability spec.md §4.6 describes:
// hash(raw) and verify(raw, hash) as a black box. bcrypt is the one concrete
// implementation; nothing upstream of this package touches the algorithm.
type Hasher struct {
	cost int
}

func NewHasher() *Hasher {
	return &Hasher{cost: bcrypt.DefaultCost}
}

func (h *Hasher) Hash(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), h.cost)
	if err != nil {
		return "", ledgererr.Wrap(ledgererr.HashingError, "hash password", err)
	}
	return string(hashed), nil
}

func (h *Hasher) Verify(raw, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// CheckPasswordStrength rejects weak passwords, returning a human-readable
// reason (spec.md §4.6: "a policy object that rejects weak inputs and
// returns a human-readable reason"), mirroring the teacher's
// ErrPasswordTooShort/NoDigit/NoLowercase/NoUppercase/NoSpecial
// enumeration from auth/handler/auth_handler.go.
func CheckPasswordStrength(raw string) error {
	if len(raw) < minPasswordLength {
		return ledgererr.New(ledgererr.TooWeak, "password must be at least 8 characters long")
	}

	var hasDigit, hasLower, hasUpper, hasSpecial bool
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case strings.ContainsRune("!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~", r):
			hasSpecial = true
		}
	}

	switch {
	case !hasDigit:
		return ledgererr.New(ledgererr.TooWeak, "password must contain at least one digit")
	case !hasLower:
		return ledgererr.New(ledgererr.TooWeak, "password must contain at least one lowercase letter")
	case !hasUpper:
		return ledgererr.New(ledgererr.TooWeak, "password must contain at least one uppercase letter")
	case !hasSpecial:
		return ledgererr.New(ledgererr.TooWeak, "password must contain at least one special character")
	}
	return nil
}
