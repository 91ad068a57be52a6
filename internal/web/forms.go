package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
	"github.com/FACorreiaa/ledger/internal/model"
)

// idFromPath parses the chi "id" path parameter.
func idFromPath(r *http.Request) (model.DatabaseID, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ledgererr.Wrap(ledgererr.NotFound, "invalid id in path", err)
	}
	return model.DatabaseID(id), nil
}

// optionalTagID reads a form field that is either empty (no tag) or a
// valid positive integer.
func optionalTagID(r *http.Request, field string) (*model.DatabaseID, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, ledgererr.Wrap(ledgererr.InvalidTag, "tag id must be numeric", err)
	}
	id := model.DatabaseID(v)
	return &id, nil
}

func requiredTagID(r *http.Request, field string) (model.DatabaseID, error) {
	v, err := strconv.ParseInt(r.FormValue(field), 10, 64)
	if err != nil {
		return 0, ledgererr.Wrap(ledgererr.InvalidTag, "tag id must be numeric", err)
	}
	return model.DatabaseID(v), nil
}

// transactionAmount applies the form's type field to amount's sign
// (spec.md §6: "Amount is stored signed: expense ⇒ −|amount|").
func transactionAmount(r *http.Request) (float64, error) {
	raw := r.FormValue("amount")
	amount, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, ledgererr.Wrap(ledgererr.InvalidAmount, "amount must be numeric", err)
	}
	if amount < 0.01 {
		return 0, ledgererr.New(ledgererr.InvalidAmount, "amount must be at least 0.01")
	}
	if r.FormValue("type") == "expense" {
		return -amount, nil
	}
	return amount, nil
}

func transactionDate(r *http.Request) (time.Time, error) {
	raw := r.FormValue("date")
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, ledgererr.Wrap(ledgererr.InvalidDateFormat, "date must be YYYY-MM-DD", err)
	}
	return d, nil
}
