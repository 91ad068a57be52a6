package ingest

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/pkg/db"
)

func newTestStore(t *testing.T) *db.DB {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := db.New(db.Config{Path: ":memory:"}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func withWrite(t *testing.T, store *db.DB, fn func(tx *sql.Tx) error) {
	t.Helper()
	require.NoError(t, store.WithWrite(context.Background(), fn))
}

// TestRepository_InsertTransactions_DuplicateImportIDIsSkipped exercises
// spec.md §8 scenario 1: re-importing the same file (same import_id per
// row) inserts nothing the second time, and the returned slice reports
// only the rows that were actually new.
func TestRepository_InsertTransactions_DuplicateImportIDIsSkipped(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewRepository(store.Conn())

	rows := []ParsedRow{
		{Date: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), Description: "Coffee", Amount: -4.5},
		{Date: time.Date(2026, 1, 6, 0, 0, 0, 0, time.UTC), Description: "Paycheck", Amount: 1000},
	}
	importIDs := []int64{
		ImportID("Checking", "2026-01-05", "Coffee", -4.5, 0),
		ImportID("Checking", "2026-01-06", "Paycheck", 1000, 1),
	}

	var firstInserted int
	withWrite(t, store, func(tx *sql.Tx) error {
		inserted, err := repo.InsertTransactions(ctx, tx, rows, "Checking", importIDs)
		require.NoError(t, err)
		firstInserted = len(inserted)
		return nil
	})
	assert.Equal(t, 2, firstInserted)

	var secondInserted int
	withWrite(t, store, func(tx *sql.Tx) error {
		inserted, err := repo.InsertTransactions(ctx, tx, rows, "Checking", importIDs)
		require.NoError(t, err)
		secondInserted = len(inserted)
		return nil
	})
	assert.Equal(t, 0, secondInserted, "re-importing the identical rows must insert nothing")

	var count int
	require.NoError(t, store.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM "transaction"`).Scan(&count))
	assert.Equal(t, 2, count)
}

// TestRepository_UpsertBalance_LaterDateReplacesEarlier verifies spec.md
// §8 scenario 2's monotonic-date rule: a balance row with a strictly later
// date overwrites the stored snapshot.
func TestRepository_UpsertBalance_LaterDateReplacesEarlier(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewRepository(store.Conn())

	withWrite(t, store, func(tx *sql.Tx) error {
		acc, err := repo.UpsertBalance(ctx, tx, "Checking", 100.0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.InDelta(t, 100.0, acc.Balance, 0.0001)
		return nil
	})

	withWrite(t, store, func(tx *sql.Tx) error {
		acc, err := repo.UpsertBalance(ctx, tx, "Checking", 250.0, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.InDelta(t, 250.0, acc.Balance, 0.0001)
		return nil
	})
}

// TestRepository_UpsertBalance_EarlierDateIsIgnored verifies the other
// half of the monotonic-date rule: a balance row with a date at or before
// the stored one never overwrites it, and the authoritative stored row is
// what's returned.
func TestRepository_UpsertBalance_EarlierDateIsIgnored(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	repo := NewRepository(store.Conn())

	withWrite(t, store, func(tx *sql.Tx) error {
		_, err := repo.UpsertBalance(ctx, tx, "Checking", 500.0, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		return nil
	})

	withWrite(t, store, func(tx *sql.Tx) error {
		acc, err := repo.UpsertBalance(ctx, tx, "Checking", 10.0, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		assert.InDelta(t, 500.0, acc.Balance, 0.0001, "an earlier-dated row must not overwrite the stored balance")
		return nil
	})
}
