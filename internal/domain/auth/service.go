package auth

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

// Service implements registration and login against the sole user row.
// Raw passwords never appear in any persisted form or log (spec.md §4.6).
type Service struct {
	repo   *Repository
	hasher *Hasher
	logger *slog.Logger
}

func NewService(repo *Repository, hasher *Hasher, logger *slog.Logger) *Service {
	return &Service{repo: repo, hasher: hasher, logger: logger}
}

// Register creates the sole user, rejecting the attempt if one already
// exists, if the password is too weak, or if password != confirmPassword
// (spec.md §4.7: "Rejected if a user already exists, if password is too
// weak, or if they differ").
func (s *Service) Register(ctx context.Context, password, confirmPassword string) (model.User, error) {
	l := s.logger.With(slog.String("method", "Register"))

	if password != confirmPassword {
		return model.User{}, ledgererr.New(ledgererr.InvalidCredentials, "passwords do not match")
	}
	if err := CheckPasswordStrength(password); err != nil {
		return model.User{}, err
	}

	exists, err := s.repo.Exists(ctx)
	if err != nil {
		l.ErrorContext(ctx, "failed checking for existing user", slog.Any("error", err))
		return model.User{}, err
	}
	if exists {
		return model.User{}, ledgererr.New(ledgererr.InvalidCredentials, "a user is already registered")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		l.ErrorContext(ctx, "failed hashing password", slog.Any("error", err))
		return model.User{}, err
	}

	user, err := s.repo.Create(ctx, hash)
	if err != nil {
		l.ErrorContext(ctx, "failed creating user", slog.Any("error", err))
		return model.User{}, err
	}
	l.InfoContext(ctx, "user registered successfully")
	return user, nil
}

// Login verifies password against the stored hash. It takes no email: the
// login form's email field is neither passed in nor checked, since the
// store holds exactly one user with no email field (spec.md §3). Any failure
// collapses to the single generic ledgererr.InvalidCredentials so the
// handler never reveals which field was wrong.
func (s *Service) Login(ctx context.Context, password string) (model.User, error) {
	l := s.logger.With(slog.String("method", "Login"))

	user, err := s.repo.Get(ctx)
	if err != nil {
		l.DebugContext(ctx, "login attempted with no registered user")
		return model.User{}, ledgererr.New(ledgererr.InvalidCredentials, "incorrect email or password")
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		l.DebugContext(ctx, "login attempted with wrong password")
		return model.User{}, ledgererr.New(ledgererr.InvalidCredentials, "incorrect email or password")
	}

	l.InfoContext(ctx, "user logged in successfully")
	return user, nil
}
