package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/FACorreiaa/ledger/internal/model"
)

// Totals holds a bucket's income/expense sums, excluding transactions
// whose tag is in the excluded-tag set (spec.md §4.5 step 3).
type Totals struct {
	Income   float64
	Expenses float64
}

// DayGroup is every transaction on one calendar date within a bucket.
type DayGroup struct {
	Date         time.Time
	Transactions []model.Transaction
}

// CategoryItem is one tag's (or "Other"'s) contribution to a bucket's
// income or expense total, with its integer percentage share.
type CategoryItem struct {
	TagName string
	Amount  float64
	Percent int
}

// CategorySummary is the income-then-expense breakdown for one bucket,
// each half independently sorted by magnitude descending.
type CategorySummary struct {
	Income   []CategoryItem
	Expenses []CategoryItem
}

// Bucket is one grouping interval inside a window, with its totals, its
// per-day transaction groups, and (when requested) its category summary.
type Bucket struct {
	Range   DateRange
	Totals  Totals
	Days    []DayGroup
	Summary *CategorySummary
}

// OtherTagLabel is the category-summary label used for untagged
// transactions (spec.md §4.5 step 5: "untagged -> label 'Other'").
const OtherTagLabel = "Other"

// Aggregate runs the pipeline described in spec.md §4.5 steps 2-5 over
// transactions already fetched for the window and sorted by date
// descending: partition into buckets, accumulate totals excluding
// excludedTags, group each bucket's rows by calendar date, and —  when
// withSummary is true — compute each bucket's category summary.
//
// tagNames maps a tag id to its display name; a transaction whose
// TagID is nil, or whose id isn't in tagNames, is labeled "Other".
func Aggregate(transactions []model.Transaction, bucketPreset Preset, excludedTags map[model.DatabaseID]bool, tagNames map[model.DatabaseID]string, withSummary bool) []Bucket {
	var buckets []Bucket
	var current *Bucket
	var currentRange DateRange
	haveCurrent := false

	for _, tx := range transactions {
		r := ComputeRange(bucketPreset, tx.Date)
		if !haveCurrent || r != currentRange {
			buckets = append(buckets, Bucket{Range: r})
			current = &buckets[len(buckets)-1]
			currentRange = r
			haveCurrent = true
		}

		excluded := tx.TagID != nil && excludedTags[*tx.TagID]
		if !excluded {
			if tx.Amount >= 0 {
				current.Totals.Income += tx.Amount
			} else {
				current.Totals.Expenses += tx.Amount
			}
		}

		current.Days = addToDayGroup(current.Days, tx)
	}

	if withSummary {
		for i := range buckets {
			summary := buildCategorySummary(buckets[i], excludedTags, tagNames)
			buckets[i].Summary = &summary
		}
	}

	return buckets
}

func addToDayGroup(days []DayGroup, tx model.Transaction) []DayGroup {
	d := dateOnly(tx.Date)
	if len(days) > 0 && days[len(days)-1].Date.Equal(d) {
		last := &days[len(days)-1]
		last.Transactions = append(last.Transactions, tx)
		return days
	}
	return append(days, DayGroup{Date: d, Transactions: []model.Transaction{tx}})
}

func buildCategorySummary(b Bucket, excludedTags map[model.DatabaseID]bool, tagNames map[model.DatabaseID]string) CategorySummary {
	incomeByTag := map[string]float64{}
	expenseByTag := map[string]float64{}

	for _, day := range b.Days {
		for _, tx := range day.Transactions {
			if tx.TagID != nil && excludedTags[*tx.TagID] {
				continue
			}
			name := OtherTagLabel
			if tx.TagID != nil {
				if n, ok := tagNames[*tx.TagID]; ok {
					name = n
				}
			}
			if tx.Amount >= 0 {
				incomeByTag[name] += tx.Amount
			} else {
				expenseByTag[name] += tx.Amount
			}
		}
	}

	income := toSortedItems(incomeByTag, b.Totals.Income, false)
	expenses := toSortedItems(expenseByTag, b.Totals.Expenses, true)

	return CategorySummary{Income: income, Expenses: expenses}
}

// toSortedItems converts a tag->amount map into percentage-annotated
// items sorted descending by magnitude. absolute controls whether the
// sort and percent denominator use the absolute value (for expenses,
// which are negative).
func toSortedItems(byTag map[string]float64, total float64, absolute bool) []CategoryItem {
	items := make([]CategoryItem, 0, len(byTag))
	denom := total
	if absolute {
		denom = math.Abs(total)
	}
	for name, amount := range byTag {
		items = append(items, CategoryItem{
			TagName: name,
			Amount:  amount,
			Percent: percentOf(amount, denom, absolute),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i].Amount, items[j].Amount
		if absolute {
			a, b = math.Abs(a), math.Abs(b)
		}
		return a > b
	})
	return items
}

// percentOf computes an integer percentage, rounded half-away-from-zero,
// 0 when the denominator is zero (spec.md §4.5 step 5).
func percentOf(amount, denom float64, absolute bool) int {
	if denom == 0 {
		return 0
	}
	a := amount
	if absolute {
		a = math.Abs(a)
	}
	pct := (a / denom) * 100
	if pct >= 0 {
		return int(math.Floor(pct + 0.5))
	}
	return -int(math.Floor(-pct + 0.5))
}
