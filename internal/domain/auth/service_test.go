package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/pkg/db"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := db.New(db.Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	repo := NewRepository(store.Conn())
	return NewService(repo, NewHasher(), logger)
}

const strongPassword = "Str0ng!Pass"

func TestService_Register_FirstUserSucceeds(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	user, err := svc.Register(ctx, strongPassword, strongPassword)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, strongPassword, user.PasswordHash)
}

func TestService_Register_SecondUserRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, strongPassword, strongPassword)
	require.NoError(t, err)

	_, err = svc.Register(ctx, strongPassword, strongPassword)
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidCredentials, ledgererr.KindOf(err))
}

func TestService_Register_MismatchedConfirmation(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, strongPassword, "somethingElse1!")
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidCredentials, ledgererr.KindOf(err))
}

func TestService_Register_WeakPasswordRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "short", "short")
	require.Error(t, err)
	assert.Equal(t, ledgererr.TooWeak, ledgererr.KindOf(err))
}

func TestService_Login_CorrectPassword(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, strongPassword, strongPassword)
	require.NoError(t, err)

	user, err := svc.Login(ctx, strongPassword)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
}

func TestService_Login_WrongPasswordGivesGenericError(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, strongPassword, strongPassword)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "wrongPassword1!")
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidCredentials, ledgererr.KindOf(err))
}

func TestService_Login_NoRegisteredUserGivesGenericError(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Login(ctx, strongPassword)
	require.Error(t, err)
	assert.Equal(t, ledgererr.InvalidCredentials, ledgererr.KindOf(err))
}
