package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

// Repository is the sqlite access layer for the sole user row. Exactly zero
// or one user exists at any time (spec.md §3), so there is no user_id
// parameter on any of these methods.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the registered user, or ledgererr.NotFound if registration
// hasn't happened yet.
func (r *Repository) Get(ctx context.Context) (model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, password_hash FROM user LIMIT 1`)

	var id int64
	var hash string
	if err := row.Scan(&id, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ledgererr.New(ledgererr.NotFound, "no registered user")
		}
		return model.User{}, ledgererr.Wrap(ledgererr.SqlError, "load user", err)
	}
	return model.User{ID: model.DatabaseID(id), PasswordHash: hash}, nil
}

// Exists reports whether a user has already been registered (spec.md §4.6:
// "thereafter registration is rejected").
func (r *Repository) Exists(ctx context.Context) (bool, error) {
	var count int
	row := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user`)
	if err := row.Scan(&count); err != nil {
		return false, ledgererr.Wrap(ledgererr.SqlError, "count users", err)
	}
	return count > 0, nil
}

// Create inserts a user row. The user table has no constraint limiting it
// to one row; Service.Register checks Exists before calling this. Any
// insert failure is returned as ledgererr.SqlError.
func (r *Repository) Create(ctx context.Context, passwordHash string) (model.User, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO user (password_hash) VALUES (?)`, passwordHash)
	if err != nil {
		return model.User{}, ledgererr.Wrap(ledgererr.SqlError, "insert user", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return model.User{}, ledgererr.Wrap(ledgererr.SqlError, "read inserted user id", err)
	}
	return model.User{ID: model.DatabaseID(id), PasswordHash: passwordHash}, nil
}
