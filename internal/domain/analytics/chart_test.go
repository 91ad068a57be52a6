package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/ledger/internal/model"
)

// TestRunningBalanceProjection_WalksBackwardFromTotal verifies spec.md
// §4.5's recurrence directly: given the total at "today" and the ordered
// (oldest-first) monthly net deltas, each position equals the total minus
// every delta strictly after it.
func TestRunningBalanceProjection_WalksBackwardFromTotal(t *testing.T) {
	// Three months oldest->newest with net deltas +100, -50, +20; total at
	// "today" (end of the newest month) is 500.
	monthlyNet := []float64{100, -50, 20}
	got := RunningBalanceProjection(500, monthlyNet)

	require.Len(t, got, 3)
	assert.InDelta(t, 500.0, got[2], 0.0001) // last position always equals total
	assert.InDelta(t, 480.0, got[1], 0.0001) // 500 - 20
	assert.InDelta(t, 530.0, got[0], 0.0001) // 500 - 20 - (-50)
}

func TestRunningBalanceProjection_EmptyInputReturnsNil(t *testing.T) {
	assert.Nil(t, RunningBalanceProjection(500, nil))
}

func TestRunningBalanceProjection_SingleMonthEqualsTotal(t *testing.T) {
	got := RunningBalanceProjection(250, []float64{42})
	require.Len(t, got, 1)
	assert.InDelta(t, 250.0, got[0], 0.0001)
}

// TestBuildMonthBuckets_ExcludedTagIsOmittedFromTotalsAndByTag verifies
// spec.md §4.5 step 3: transactions tagged with an excluded tag contribute
// to neither a bucket's Income/Expenses nor its ByTag breakdown.
func TestBuildMonthBuckets_ExcludedTagIsOmittedFromTotalsAndByTag(t *testing.T) {
	today := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	transferTag := model.DatabaseID(1)
	groceriesTag := model.DatabaseID(2)

	transactions := []model.Transaction{
		{Amount: -40, Date: time.Date(2026, 7, 3, 0, 0, 0, 0, time.UTC), TagID: &groceriesTag},
		{Amount: -500, Date: time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC), TagID: &transferTag},
		{Amount: 1000, Date: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	excluded := map[model.DatabaseID]bool{transferTag: true}
	tagNames := map[model.DatabaseID]string{
		transferTag:  "Transfer",
		groceriesTag: "Groceries",
	}

	buckets := BuildMonthBuckets(transactions, today, excluded, tagNames)
	require.Len(t, buckets, 12)

	july := buckets[len(buckets)-1]
	assert.Equal(t, 2026, july.Month.Year())
	assert.Equal(t, time.July, july.Month.Month())

	assert.InDelta(t, 1000.0, july.Income, 0.0001)
	assert.InDelta(t, -40.0, july.Expenses, 0.0001)
	assert.InDelta(t, -40.0, july.ByTag["Groceries"], 0.0001)
	_, present := july.ByTag["Transfer"]
	assert.False(t, present, "excluded tag must not appear in ByTag")
}

func TestBuildMonthBuckets_UntaggedExpenseLabeledOther(t *testing.T) {
	today := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	transactions := []model.Transaction{
		{Amount: -15, Date: time.Date(2026, 7, 8, 0, 0, 0, 0, time.UTC)},
	}

	buckets := BuildMonthBuckets(transactions, today, map[model.DatabaseID]bool{}, map[model.DatabaseID]string{})
	july := buckets[len(buckets)-1]
	assert.InDelta(t, -15.0, july.ByTag[OtherTagLabel], 0.0001)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$1234.56", FormatCurrency(1234.56))
	assert.Equal(t, "-$12.00", FormatCurrency(-12))
}
