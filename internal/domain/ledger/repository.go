// Package ledger is the direct CRUD-facing store access for transactions,
// tags, rules, and accounts — the handful of operations spec.md §4.1
// describes (UpdateMissing*/DeleteMissing* on a targeted row, distinct from
// the generic NotFound reads use) that don't belong to the narrower
// ingest/tagging/analytics repositories, which only ever insert or scan.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
	"github.com/FACorreiaa/ledger/pkg/db"
)

type Repository struct {
	store *db.DB
}

func NewRepository(store *db.DB) *Repository {
	return &Repository{store: store}
}

// CreateTransaction inserts a new transaction. Never used for imported rows
// (those go through ingest.Repository.InsertTransactions) — this is the
// manual-entry path behind POST /api/transactions.
func (r *Repository) CreateTransaction(ctx context.Context, tx model.Transaction) (model.Transaction, error) {
	var created model.Transaction
	err := r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `
			INSERT INTO "transaction" (amount, date, description, tag_id)
			VALUES (?, ?, ?, ?)
		`, tx.Amount, tx.Date.Format("2006-01-02"), tx.Description, nullableID(tx.TagID))
		if err != nil {
			return mapSQLError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return ledgererr.Wrap(ledgererr.SqlError, "read inserted transaction id", err)
		}
		created = tx
		created.ID = model.DatabaseID(id)
		return nil
	})
	return created, err
}

// UpdateTransaction overwrites an existing transaction's editable fields,
// returning ledgererr.UpdateMissingTransaction if no row matched.
func (r *Repository) UpdateTransaction(ctx context.Context, tx model.Transaction) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `
			UPDATE "transaction"
			SET amount = ?, date = ?, description = ?, tag_id = ?
			WHERE id = ?
		`, tx.Amount, tx.Date.Format("2006-01-02"), tx.Description, nullableID(tx.TagID), int64(tx.ID))
		if err != nil {
			return mapSQLError(err)
		}
		return requireAffected(res, ledgererr.UpdateMissingTransaction, "transaction")
	})
}

// DeleteTransaction removes a transaction by id, returning
// ledgererr.DeleteMissingTransaction if no row matched.
func (r *Repository) DeleteTransaction(ctx context.Context, id model.DatabaseID) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `DELETE FROM "transaction" WHERE id = ?`, int64(id))
		if err != nil {
			return mapSQLError(err)
		}
		return requireAffected(res, ledgererr.DeleteMissingTransaction, "transaction")
	})
}

// GetTransaction fetches a single transaction, or ledgererr.NotFound.
func (r *Repository) GetTransaction(ctx context.Context, id model.DatabaseID) (model.Transaction, error) {
	row := r.store.Conn().QueryRowContext(ctx, `
		SELECT id, amount, date, description, tag_id, import_id FROM "transaction" WHERE id = ?
	`, int64(id))
	return scanTransactionRow(row)
}

func scanTransactionRow(row *sql.Row) (model.Transaction, error) {
	var t model.Transaction
	var rawID int64
	var dateStr string
	var tagID, importID sql.NullInt64
	if err := row.Scan(&rawID, &t.Amount, &dateStr, &t.Description, &tagID, &importID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Transaction{}, ledgererr.New(ledgererr.NotFound, "transaction not found")
		}
		return model.Transaction{}, ledgererr.Wrap(ledgererr.SqlError, "load transaction", err)
	}
	t.ID = model.DatabaseID(rawID)
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

// ListTags returns every tag, ordered by name.
func (r *Repository) ListTags(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.store.Conn().QueryContext(ctx, `SELECT id, name FROM tag ORDER BY name ASC`)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "list tags", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, ledgererr.Wrap(ledgererr.SqlError, "scan tag", err)
		}
		tags = append(tags, model.Tag{ID: model.DatabaseID(id), Name: name})
	}
	return tags, rows.Err()
}

// CreateTag inserts a new tag, surfacing EmptyTagName via model.NewTag
// (called by the handler before reaching here) and a generic SqlError on a
// name collision — spec.md doesn't name a distinct DuplicateTagName kind.
func (r *Repository) CreateTag(ctx context.Context, name string) (model.Tag, error) {
	var created model.Tag
	err := r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `INSERT INTO tag (name) VALUES (?)`, name)
		if err != nil {
			return mapSQLError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return ledgererr.Wrap(ledgererr.SqlError, "read inserted tag id", err)
		}
		created = model.Tag{ID: model.DatabaseID(id), Name: name}
		return nil
	})
	return created, err
}

func (r *Repository) UpdateTag(ctx context.Context, id model.DatabaseID, name string) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `UPDATE tag SET name = ? WHERE id = ?`, name, int64(id))
		if err != nil {
			return mapSQLError(err)
		}
		return requireAffected(res, ledgererr.UpdateMissingTag, "tag")
	})
}

func (r *Repository) DeleteTag(ctx context.Context, id model.DatabaseID) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `DELETE FROM tag WHERE id = ?`, int64(id))
		if err != nil {
			return mapSQLError(err)
		}
		return requireAffected(res, ledgererr.DeleteMissingTag, "tag")
	})
}

// ListRules returns every rule with its tag name, longest pattern first —
// the same ordering tagging.Engine loads rules in.
func (r *Repository) ListRules(ctx context.Context) ([]RuleView, error) {
	rows, err := r.store.Conn().QueryContext(ctx, `
		SELECT r.id, r.pattern, r.tag_id, t.name
		FROM rule r JOIN tag t ON t.id = r.tag_id
		ORDER BY LENGTH(r.pattern) DESC, r.id ASC
	`)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "list rules", err)
	}
	defer rows.Close()

	var views []RuleView
	for rows.Next() {
		var id, tagID int64
		var pattern, tagName string
		if err := rows.Scan(&id, &pattern, &tagID, &tagName); err != nil {
			return nil, ledgererr.Wrap(ledgererr.SqlError, "scan rule", err)
		}
		views = append(views, RuleView{
			Rule:    model.Rule{ID: model.DatabaseID(id), Pattern: pattern, TagID: model.DatabaseID(tagID)},
			TagName: tagName,
		})
	}
	return views, rows.Err()
}

// RuleView pairs a rule with its tag's display name, for the rules list view.
type RuleView struct {
	model.Rule
	TagName string
}

func (r *Repository) CreateRule(ctx context.Context, pattern string, tagID model.DatabaseID) (model.Rule, error) {
	var created model.Rule
	err := r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `INSERT INTO rule (pattern, tag_id) VALUES (?, ?)`, pattern, int64(tagID))
		if err != nil {
			return mapSQLError(err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return ledgererr.Wrap(ledgererr.SqlError, "read inserted rule id", err)
		}
		created = model.Rule{ID: model.DatabaseID(id), Pattern: pattern, TagID: tagID}
		return nil
	})
	return created, err
}

func (r *Repository) UpdateRule(ctx context.Context, id model.DatabaseID, pattern string, tagID model.DatabaseID) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `UPDATE rule SET pattern = ?, tag_id = ? WHERE id = ?`, pattern, int64(tagID), int64(id))
		if err != nil {
			return mapSQLError(err)
		}
		return requireAffected(res, ledgererr.UpdateMissingRule, "rule")
	})
}

func (r *Repository) DeleteRule(ctx context.Context, id model.DatabaseID) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		res, err := sqlTx.ExecContext(ctx, `DELETE FROM rule WHERE id = ?`, int64(id))
		if err != nil {
			return mapSQLError(err)
		}
		return requireAffected(res, ledgererr.DeleteMissingRule, "rule")
	})
}

// ListAccounts returns every account balance snapshot, ordered by name.
func (r *Repository) ListAccounts(ctx context.Context) ([]model.Account, error) {
	rows, err := r.store.Conn().QueryContext(ctx, `SELECT id, name, balance, date FROM balance ORDER BY name ASC`)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "list accounts", err)
	}
	defer rows.Close()

	var accounts []model.Account
	for rows.Next() {
		var id int64
		var name, dateStr string
		var balance float64
		if err := rows.Scan(&id, &name, &balance, &dateStr); err != nil {
			return nil, ledgererr.Wrap(ledgererr.SqlError, "scan account", err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse account date", err)
		}
		accounts = append(accounts, model.Account{ID: model.DatabaseID(id), Name: name, Balance: balance, Date: date})
	}
	return accounts, rows.Err()
}

// ListUntagged returns every transaction currently in the quick-tagging
// queue, oldest first.
func (r *Repository) ListUntagged(ctx context.Context) ([]model.Transaction, error) {
	rows, err := r.store.Conn().QueryContext(ctx, `
		SELECT t.id, t.amount, t.date, t.description, t.tag_id, t.import_id
		FROM untagged_transaction u JOIN "transaction" t ON t.id = u.transaction_id
		ORDER BY u.created_at ASC
	`)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.SqlError, "list untagged queue", err)
	}
	defer rows.Close()

	var result []model.Transaction
	for rows.Next() {
		var t model.Transaction
		var rawID int64
		var dateStr string
		var tagID, importID sql.NullInt64
		if err := rows.Scan(&rawID, &t.Amount, &dateStr, &t.Description, &tagID, &importID); err != nil {
			return nil, ledgererr.Wrap(ledgererr.SqlError, "scan untagged transaction", err)
		}
		t.ID = model.DatabaseID(rawID)
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			return nil, ledgererr.Wrap(ledgererr.InvalidDateFormat, "parse transaction date", err)
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
		result = append(result, t)
	}
	return result, rows.Err()
}

// ApplyQuickTagging assigns tags and dismisses rows in one write
// transaction (spec.md §6: "For any transaction appearing in both lists,
// the tag assignment wins"). Dismissal just deletes the queue row directly
// — trigger T1 only fires on a tag_id update, so a plain dismiss (leaving
// tag_id null) needs its own delete.
func (r *Repository) ApplyQuickTagging(ctx context.Context, assignments map[model.DatabaseID]model.DatabaseID, dismissals []model.DatabaseID) error {
	return r.store.WithWrite(ctx, func(sqlTx *sql.Tx) error {
		for txID, tagID := range assignments {
			if _, err := sqlTx.ExecContext(ctx, `UPDATE "transaction" SET tag_id = ? WHERE id = ?`, int64(tagID), int64(txID)); err != nil {
				return mapSQLError(err)
			}
		}
		for _, txID := range dismissals {
			if _, ok := assignments[txID]; ok {
				continue // tag assignment wins over dismissal
			}
			if _, err := sqlTx.ExecContext(ctx, `DELETE FROM untagged_transaction WHERE transaction_id = ?`, int64(txID)); err != nil {
				return ledgererr.Wrap(ledgererr.SqlError, "dismiss untagged transaction", err)
			}
		}
		return nil
	})
}

func nullableID(id *model.DatabaseID) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func requireAffected(res sql.Result, kind ledgererr.Kind, noun string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return ledgererr.Wrap(ledgererr.SqlError, "read rows affected", err)
	}
	if n == 0 {
		return ledgererr.New(kind, noun+" not found")
	}
	return nil
}

func mapSQLError(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintForeignKey:
			return ledgererr.Wrap(ledgererr.InvalidTag, "tag does not exist", err)
		case sqlite3.ErrConstraintUnique:
			return ledgererr.Wrap(ledgererr.SqlError, "unique constraint violated", err)
		}
	}
	return ledgererr.Wrap(ledgererr.SqlError, "database operation failed", err)
}
