package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/FACorreiaa/ledger/internal/model"
)

// MonthBucket is one month's worth of aggregated data, used to build all
// three dashboard series over the trailing twelve months.
type MonthBucket struct {
	Month    time.Time // first day of the month, UTC
	Income   float64
	Expenses float64
	ByTag    map[string]float64 // expense totals by tag name (negative values), "Other" for untagged
}

// NetIncome is Income + Expenses (Expenses is already signed negative).
func (m MonthBucket) NetIncome() float64 {
	return m.Income + m.Expenses
}

// BuildMonthBuckets groups transactions into the twelve calendar months
// ending at "today" (inclusive), filling in empty months with zeroed
// buckets so chart series never have gaps. Transactions whose tag is in
// excludedTags are skipped entirely, matching bucket-total semantics.
func BuildMonthBuckets(transactions []model.Transaction, today time.Time, excludedTags map[model.DatabaseID]bool, tagNames map[model.DatabaseID]string) []MonthBucket {
	start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -11, 0)

	buckets := make([]MonthBucket, 12)
	index := map[string]int{}
	for i := 0; i < 12; i++ {
		m := start.AddDate(0, i, 0)
		buckets[i] = MonthBucket{Month: m, ByTag: map[string]float64{}}
		index[monthKey(m)] = i
	}

	for _, tx := range transactions {
		if tx.TagID != nil && excludedTags[*tx.TagID] {
			continue
		}
		key := monthKey(time.Date(tx.Date.Year(), tx.Date.Month(), 1, 0, 0, 0, 0, time.UTC))
		i, ok := index[key]
		if !ok {
			continue
		}
		if tx.Amount >= 0 {
			buckets[i].Income += tx.Amount
			continue
		}
		buckets[i].Expenses += tx.Amount
		name := OtherTagLabel
		if tx.TagID != nil {
			if n, ok := tagNames[*tx.TagID]; ok {
				name = n
			}
		}
		buckets[i].ByTag[name] += tx.Amount
	}

	return buckets
}

func monthKey(m time.Time) string {
	return m.Format("2006-01")
}

// RunningBalanceProjection walks the running balance backward from the
// current total (spec.md §4.5: "Given the total account balance B0 at
// 'today' and per-month net deltas d1..dn ordered oldest->newest, the
// series is B0 - sum_{i=k+1}^{n} d_i for position k"). The returned
// slice has the same length as monthlyNet, with the last element always
// equal to total.
func RunningBalanceProjection(total float64, monthlyNet []float64) []float64 {
	n := len(monthlyNet)
	if n == 0 {
		return nil
	}
	balances := make([]float64, n)
	balances[n-1] = total
	for k := n - 2; k >= 0; k-- {
		balances[k] = balances[k+1] - monthlyNet[k+1]
	}
	return balances
}

// FormatCurrency renders an amount as a locale-independent two-decimal
// string: "$1234.56", "-$12.00", or "$0.00" for exactly zero (spec.md
// §4.5: "negative values prefixed with -$, zero rendered as $0.00").
func FormatCurrency(amount float64) string {
	if amount == 0 {
		return "$0.00"
	}
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", math.Abs(amount))
	}
	return fmt.Sprintf("$%.2f", amount)
}
