package ingest

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

// Repository is the sqlite-backed persistence boundary for the ingestion
// pipeline: balance upserts, deduplicated transaction inserts, and
// untagged-queue enqueueing. It replaces the teacher's
// postgres_repository.go one-for-one at the interface level, but every
// statement is rewritten for sqlite placeholder syntax (`?`, not `$1`)
// and for the spec's upsert/dedup semantics instead of the teacher's
// plain insert-returning-id.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// UpsertBalance applies the monotonic-date upsert rule from spec.md
// §4.3 step 4: the incoming row replaces the stored one only if its date
// is strictly later. When the WHERE clause blocks the update (incoming
// date <= stored date), the authoritative stored row is re-read and
// returned so callers never act on stale data they believe was written.
func (r *Repository) UpsertBalance(ctx context.Context, tx *sql.Tx, name string, balance float64, date time.Time) (model.Account, error) {
	dateStr := date.Format("2006-01-02")

	_, err := tx.ExecContext(ctx, `
		INSERT INTO balance (name, balance, date) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET balance = excluded.balance, date = excluded.date
		WHERE excluded.date > balance.date
	`, name, balance, dateStr)
	if err != nil {
		return model.Account{}, mapSQLError(err)
	}

	row := tx.QueryRowContext(ctx, `SELECT id, name, balance, date FROM balance WHERE name = ?`, name)
	var acc model.Account
	var storedDate string
	if err := row.Scan(&acc.ID, &acc.Name, &acc.Balance, &storedDate); err != nil {
		return model.Account{}, mapSQLError(err)
	}
	acc.Date, err = time.Parse("2006-01-02", storedDate)
	if err != nil {
		return model.Account{}, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse stored balance date", err)
	}
	return acc, nil
}

// InsertTransactions inserts each row with ON CONFLICT(import_id) DO
// NOTHING, returning only the rows that were actually inserted (spec.md
// §4.3 step 5 / §8 scenario 1). Rows whose import_id already exists are
// silently skipped, which is the entire dedup mechanism.
func (r *Repository) InsertTransactions(ctx context.Context, tx *sql.Tx, rows []ParsedRow, accountName string, importIDs []int64) ([]model.Transaction, error) {
	inserted := make([]model.Transaction, 0, len(rows))

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO "transaction" (amount, date, description, import_id)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(import_id) DO NOTHING
		RETURNING id, amount, date, description, import_id
	`)
	if err != nil {
		return nil, mapSQLError(err)
	}
	defer stmt.Close()

	for i, row := range rows {
		var t model.Transaction
		var dateStr string
		var importID sql.NullInt64
		err := stmt.QueryRowContext(ctx, row.Amount, row.Date.Format("2006-01-02"), row.Description, importIDs[i]).
			Scan(&t.ID, &t.Amount, &dateStr, &t.Description, &importID)
		if errors.Is(err, sql.ErrNoRows) {
			// Conflict: row already present from a prior import. Not an error.
			continue
		}
		if err != nil {
			return nil, mapSQLError(err)
		}
		t.Date, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse stored transaction date", err)
		}
		if importID.Valid {
			v := importID.Int64
			t.ImportID = &v
		}
		inserted = append(inserted, t)
	}

	return inserted, nil
}

// EnqueueUntagged inserts one queue row per transaction id, all stamped
// with the same createdAt (one wall-clock read per import batch, per
// spec.md §4.3 step 6).
func (r *Repository) EnqueueUntagged(ctx context.Context, tx *sql.Tx, transactionIDs []model.DatabaseID, createdAt time.Time) error {
	if len(transactionIDs) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO untagged_transaction (transaction_id, created_at) VALUES (?, ?)
	`)
	if err != nil {
		return mapSQLError(err)
	}
	defer stmt.Close()

	ts := createdAt.UTC().Format(time.RFC3339)
	for _, id := range transactionIDs {
		if _, err := stmt.ExecContext(ctx, int64(id), ts); err != nil {
			return mapSQLError(err)
		}
	}
	return nil
}

// mapSQLError translates sqlite3 extended error codes into the domain
// taxonomy, mirroring original_source/src/stores/sqlite/transaction.rs's
// mapping of 787 (foreign key) and 2067 (unique) to InvalidTag and
// DuplicateImportId.
func mapSQLError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return ledgererr.Wrap(ledgererr.InvalidTag, "referenced tag does not exist", err)
		case sqlite3.ErrConstraintUnique:
			msg := sqliteErr.Error()
			switch {
			case strings.Contains(msg, "balance.name"):
				return ledgererr.Wrap(ledgererr.DuplicateAccountName, "duplicate account name", err)
			case strings.Contains(msg, "transaction.import_id"):
				return ledgererr.Wrap(ledgererr.DuplicateImportId, "duplicate import id", err)
			default:
				return ledgererr.Wrap(ledgererr.DuplicateImportId, "uniqueness violation", err)
			}
		}
	}
	return ledgererr.Wrap(ledgererr.SqlError, "database operation failed", err)
}
