package web

import (
	"net/http"
	"sort"
	"time"

	"github.com/FACorreiaa/ledger/internal/domain/analytics"
)

// monthRow is one month's worth of all three dashboard series: net income,
// the running-balance projection, and the per-tag expense breakdown feeding
// the stacked bar.
type monthRow struct {
	Month          time.Time
	NetIncome      float64
	RunningBalance float64
	ByTag          map[string]float64
}

type dashboardView struct {
	TotalBalance float64
	Tags         []string // stable, sorted column order for the stacked-bar series
	Rows         []monthRow
}

// Dashboard renders the last-twelve-months chart data: net income per
// month, the running-balance projection, and monthly expenses stacked by
// tag (spec.md §4.5 "Dashboard charts" — "three series … net income …
// running net-balance projection … stacked-bar monthly expenses grouped by
// tag").
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	now := time.Now().In(h.cfg.Location())

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)
	txs, err := h.analytics.TransactionsInRange(ctx, start, now)
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
	total, err := h.analytics.TotalAccountBalance(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	buckets := analytics.BuildMonthBuckets(txs, now, excluded, tagNames)

	monthlyNet := make([]float64, len(buckets))
	for i, b := range buckets {
		monthlyNet[i] = b.NetIncome()
	}
	running := analytics.RunningBalanceProjection(total, monthlyNet)

	tagSet := map[string]bool{}
	for _, b := range buckets {
		for tag := range b.ByTag {
			tagSet[tag] = true
		}
	}
	tags := make([]string, 0, len(tagSet))
	for tag := range tagSet {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	rows := make([]monthRow, len(buckets))
	for i, b := range buckets {
		rows[i] = monthRow{
			Month:          b.Month,
			NetIncome:      b.NetIncome(),
			RunningBalance: running[i],
			ByTag:          b.ByTag,
		}
	}

	render(w, r, h.tmpl, "dashboard", "fragment:dashboard", dashboardView{
		TotalBalance: total,
		Tags:         tags,
		Rows:         rows,
	})
}
