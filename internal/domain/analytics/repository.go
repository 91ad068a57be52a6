package analytics

import (
	"context"
	"database/sql"
	"time"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

// Repository is the read-only sqlite access layer the analytics engine
// needs: the transactions inside a date range, the stored min/max
// transaction dates (for navigation-link suppression), the excluded-tag
// set, and the total of all account balance snapshots (for the
// running-balance projection's seed value).
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// TransactionsInRange fetches every transaction within [start, end],
// sorted by date descending (spec.md §4.5 step 1).
func (r *Repository) TransactionsInRange(ctx context.Context, start, end time.Time) ([]model.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, amount, date, description, tag_id, import_id
		FROM "transaction"
		WHERE date BETWEEN ? AND ?
		ORDER BY date DESC, id DESC
	`, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "load transactions in range", err)
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var t model.Transaction
	var id int64
	var dateStr string
	var tagID, importID sql.NullInt64
	if err := rows.Scan(&id, &t.Amount, &dateStr, &t.Description, &tagID, &importID); err != nil {
		return model.Transaction{}, ledgererr.Wrap(ledgererr.SqlError, "scan transaction", err)
	}
	t.ID = model.DatabaseID(id)
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return model.Transaction{}, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse transaction date", err)
	}
	t.Date = date
	if tagID.Valid {
		v := model.DatabaseID(tagID.Int64)
		t.TagID = &v
	}
	if importID.Valid {
		v := importID.Int64
		t.ImportID = &v
	}
	return t, nil
}

// DateBounds returns the min/max transaction dates currently stored, or
// nil if the store has no transactions yet.
func (r *Repository) DateBounds(ctx context.Context) (*DateRange, error) {
	row := r.db.QueryRowContext(ctx, `SELECT MIN(date), MAX(date) FROM "transaction"`)
	var min, max sql.NullString
	if err := row.Scan(&min, &max); err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "load transaction date bounds", err)
	}
	if !min.Valid || !max.Valid {
		return nil, nil
	}
	start, err := time.Parse("2006-01-02", min.String)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse min transaction date", err)
	}
	end, err := time.Parse("2006-01-02", max.String)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse max transaction date", err)
	}
	return &DateRange{Start: start, End: end}, nil
}

// ExcludedTags returns the set of tag IDs currently excluded from
// analytical totals.
func (r *Repository) ExcludedTags(ctx context.Context) (map[model.DatabaseID]bool, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT tag_id FROM excluded_tag`)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "load excluded tags", err)
	}
	defer rows.Close()

	set := map[model.DatabaseID]bool{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, ledgererr.Wrap(ledgererr.SqlError, "scan excluded tag", err)
		}
		set[model.DatabaseID(id)] = true
	}
	return set, rows.Err()
}

// TagNames returns every tag's display name by ID, used to label
// category summaries and chart series.
func (r *Repository) TagNames(ctx context.Context) (map[model.DatabaseID]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tag`)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "load tag names", err)
	}
	defer rows.Close()

	names := map[model.DatabaseID]string{}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, ledgererr.Wrap(ledgererr.SqlError, "scan tag", err)
		}
		names[model.DatabaseID(id)] = name
	}
	return names, rows.Err()
}

// TotalAccountBalance sums every account's latest balance snapshot,
// seeding the running-balance projection (spec.md §4.5: "seeded by the
// current total of all account snapshots").
func (r *Repository) TotalAccountBalance(ctx context.Context) (float64, error) {
	row := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(balance), 0) FROM balance`)
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, ledgererr.Wrap(ledgererr.SqlError, "sum account balances", err)
	}
	return total, nil
}
