package web

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/FACorreiaa/ledger/internal/domain/analytics"
	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

type transactionsView struct {
	RangeLabel string
	Nav        analytics.Navigation
	Buckets    []analytics.Bucket
}

// Transactions renders the windowed/bucketed transactions list (spec.md
// §4.5's aggregation pipeline end to end). Query params: range (window
// preset), interval (bucket preset), anchor (date), summary (bool).
//
// If interval names a preset wider than range, the engine widens the
// window to the smallest preset containing it and redirects so the URL
// reflects the normalized state, rather than silently picking one or the
// other (spec.md §4.5: "the engine widens the window ... and emits a
// redirect").
func (h *Handlers) Transactions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	windowPreset := analytics.ParsePreset(q.Get("range"))
	if q.Get("range") == "" {
		windowPreset = analytics.Month
	}
	bucketPreset := analytics.ParsePreset(q.Get("interval"))
	anchor := parseAnchor(q.Get("anchor"), time.Now().In(h.cfg.Location()))
	withSummary := q.Get("summary") == "true"

	if bucketPreset.SizeRank() > windowPreset.SizeRank() {
		redirectQuery := url.Values{}
		redirectQuery.Set("range", bucketPreset.QueryValue())
		redirectQuery.Set("interval", bucketPreset.QueryValue())
		redirectQuery.Set("anchor", anchor.Format("2006-01-02"))
		if withSummary {
			redirectQuery.Set("summary", "true")
		}
		http.Redirect(w, r, "?"+redirectQuery.Encode(), http.StatusSeeOther)
		return
	}

	window := analytics.ComputeRange(windowPreset, anchor)
	bounds, err := h.analytics.DateBounds(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	nav := analytics.NewNavigation("range", windowPreset, window, bounds)

	txs, err := h.analytics.TransactionsInRange(ctx, window.Start, window.End)
	if err != nil {
		writeError(w, r, err)
		return
	}
	excluded, err := h.analytics.ExcludedTags(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tagNames, err := h.analytics.TagNames(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	buckets := analytics.Aggregate(txs, bucketPreset, excluded, tagNames, withSummary)

	render(w, r, h.tmpl, "transactions", "fragment:transactions", transactionsView{
		RangeLabel: analytics.RangeLabel(window),
		Nav:        nav,
		Buckets:    buckets,
	})
}

func parseAnchor(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return fallback
	}
	return d
}

type transactionFormView struct {
	Error       string
	RedirectURL string
	Amount      string
	Date        string
	Description string
}

// NewTransactionForm renders the blank create form.
func (h *Handlers) NewTransactionForm(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.tmpl, "transaction_form", "fragment:transaction_form", transactionFormView{
		RedirectURL: r.URL.Query().Get("redirect_url"),
		Date:        time.Now().In(h.cfg.Location()).Format("2006-01-02"),
	})
}

// CreateTransaction handles the transaction form's POST submission
// (spec.md §6 transaction form contract).
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	redirectURL := r.FormValue("redirect_url")

	amount, err := transactionAmount(r)
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}
	date, err := transactionDate(r)
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}
	tagID, err := optionalTagID(r, "tag_id")
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}

	_, err = h.ledgerSvc.CreateTransaction(r.Context(), amount, date, r.FormValue("description"), tagID)
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}

	redirectForForm(w, r, redirectURL, TransactionsView)
}

// EditTransactionForm renders the edit form pre-filled from the stored row.
func (h *Handlers) EditTransactionForm(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	tx, err := h.ledgerSvc.GetTransaction(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	render(w, r, h.tmpl, "transaction_form", "fragment:transaction_form", transactionFormView{
		RedirectURL: r.URL.Query().Get("redirect_url"),
		Amount:      strconv.FormatFloat(absFloat(tx.Amount), 'f', 2, 64),
		Date:        tx.Date.Format("2006-01-02"),
		Description: tx.Description,
	})
}

// UpdateTransaction handles the edit form's PUT submission.
func (h *Handlers) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	redirectURL := r.FormValue("redirect_url")

	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	amount, err := transactionAmount(r)
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}
	date, err := transactionDate(r)
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}
	tagID, err := optionalTagID(r, "tag_id")
	if err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}

	if err := h.ledgerSvc.UpdateTransaction(r.Context(), id, amount, date, r.FormValue("description"), tagID); err != nil {
		h.rerenderTransactionForm(w, r, redirectURL, err)
		return
	}

	redirectForForm(w, r, redirectURL, TransactionsView)
}

// DeleteTransaction handles the DELETE API call from the transactions list.
func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.ledgerSvc.DeleteTransaction(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) rerenderTransactionForm(w http.ResponseWriter, r *http.Request, redirectURL string, err error) {
	w.WriteHeader(statusFor(ledgererr.KindOf(err)))
	render(w, r, h.tmpl, "transaction_form", "fragment:transaction_form", transactionFormView{
		Error:       err.Error(),
		RedirectURL: redirectURL,
		Amount:      r.FormValue("amount"),
		Date:        r.FormValue("date"),
		Description: r.FormValue("description"),
	})
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
