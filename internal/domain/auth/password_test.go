package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

func TestCheckPasswordStrength(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"too short", "Ab1!", true},
		{"no digit", "Abcdefgh!", true},
		{"no lowercase", "ABCDEFG1!", true},
		{"no uppercase", "abcdefg1!", true},
		{"no special", "Abcdefg1", true},
		{"valid", "Str0ng!Pass", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPasswordStrength(tc.raw)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, ledgererr.TooWeak, ledgererr.KindOf(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHasher_HashAndVerifyRoundTrip(t *testing.T) {
	h := NewHasher()

	hashed, err := h.Hash("Str0ng!Pass")
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", hashed)

	assert.True(t, h.Verify("Str0ng!Pass", hashed))
	assert.False(t, h.Verify("wrongPassword", hashed))
}
