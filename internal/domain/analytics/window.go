// Package analytics implements the windowed/bucketed view over the
// transaction ledger: window and bucket date-range computation,
// navigation links, the bucket/category aggregation pipeline, and the
// dashboard chart series.
package analytics

import "time"

// Preset is the shared set of range granularities used for both the
// outer Window and the inner Bucket (spec.md §4.5: "Same preset set as
// window"). A single type does double duty for both concepts, exactly
// as the two near-duplicate Rust modules this is grounded on
// (window.rs's WindowPreset/BucketPreset and range.rs's
// RangePreset/IntervalPreset) independently converged on.
type Preset int

const (
	Week Preset = iota
	Fortnight
	Month
	Quarter
	HalfYear
	Year
)

// sizeRank orders presets from smallest to largest span, used to compare
// a window against a bucket (spec.md §4.5 constraint: size_rank(bucket)
// <= size_rank(window)).
func (p Preset) sizeRank() int {
	switch p {
	case Week:
		return 1
	case Fortnight:
		return 2
	case Month:
		return 3
	case Quarter:
		return 4
	case HalfYear:
		return 5
	case Year:
		return 6
	default:
		return 0
	}
}

// SizeRank exposes sizeRank for callers outside the package (the router
// needs it to decide whether to widen+redirect).
func (p Preset) SizeRank() int { return p.sizeRank() }

func (p Preset) QueryValue() string {
	switch p {
	case Week:
		return "week"
	case Fortnight:
		return "fortnight"
	case Month:
		return "month"
	case Quarter:
		return "quarter"
	case HalfYear:
		return "half-year"
	case Year:
		return "year"
	default:
		return "week"
	}
}

func (p Preset) Label() string {
	switch p {
	case Week:
		return "Week"
	case Fortnight:
		return "Fortnight"
	case Month:
		return "Month"
	case Quarter:
		return "Quarter"
	case HalfYear:
		return "Half-year"
	case Year:
		return "Year"
	default:
		return "Week"
	}
}

// ParsePreset maps a query-string value back to a Preset, defaulting to
// Week for anything unrecognized (mirrors IntervalPreset::default_preset
// for buckets; the router applies Month as the window default instead).
func ParsePreset(raw string) Preset {
	switch raw {
	case "week":
		return Week
	case "fortnight":
		return Fortnight
	case "month":
		return Month
	case "quarter":
		return Quarter
	case "half-year":
		return HalfYear
	case "year":
		return Year
	default:
		return Week
	}
}

// DateRange is an inclusive [Start, End] calendar-day span.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range, inclusive.
func (r DateRange) Contains(d time.Time) bool {
	return !d.Before(r.Start) && !d.After(r.End)
}

// ComputeRange snaps anchor to the containing interval of preset —
// identical logic for both a Window and a Bucket, since both are the
// same Preset type (spec.md §4.5: "A window is computed from an anchor
// date by snapping to the preset's containing interval").
func ComputeRange(preset Preset, anchor time.Time) DateRange {
	switch preset {
	case Week:
		return weekBounds(anchor)
	case Fortnight:
		return fortnightBounds(anchor)
	case Month:
		return monthBounds(anchor.Year(), int(anchor.Month()))
	case Quarter:
		return quarterBounds(anchor.Year(), int(anchor.Month()))
	case HalfYear:
		return halfYearBounds(anchor.Year(), int(anchor.Month()))
	default:
		return yearBounds(anchor.Year())
	}
}

// weekBounds starts the week on Monday regardless of locale (spec.md §8
// boundary behaviour), using ISO weekday numbering (Monday=1..Sunday=7).
func weekBounds(anchor time.Time) DateRange {
	weekday := int(anchor.Weekday())
	if weekday == 0 {
		weekday = 7 // time.Sunday == 0; ISO wants Sunday == 7
	}
	start := anchor.AddDate(0, 0, -(weekday - 1))
	end := start.AddDate(0, 0, 6)
	return DateRange{Start: dateOnly(start), End: dateOnly(end)}
}

// fortnightBounds splits the month into days 1-14 and 15-end-of-month
// (spec.md §8 boundary behaviour: "Fortnight split is days 1-14 and
// 15-end-of-month").
func fortnightBounds(anchor time.Time) DateRange {
	year, month, day := anchor.Date()
	var startDay, endDay int
	if day <= 14 {
		startDay, endDay = 1, 14
	} else {
		startDay, endDay = 15, lastDayOfMonth(year, int(month))
	}
	return DateRange{
		Start: time.Date(year, month, startDay, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, month, endDay, 0, 0, 0, 0, time.UTC),
	}
}

func monthBounds(year, month int) DateRange {
	return DateRange{
		Start: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.Month(month), lastDayOfMonth(year, month), 0, 0, 0, 0, time.UTC),
	}
}

// quarterBounds operates on calendar months, not 30-day arithmetic
// (spec.md §8: "the engine operates on calendar months").
func quarterBounds(year, month int) DateRange {
	quarterStart := ((month-1)/3)*3 + 1
	quarterEnd := quarterStart + 2
	return DateRange{
		Start: time.Date(year, time.Month(quarterStart), 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.Month(quarterEnd), lastDayOfMonth(year, quarterEnd), 0, 0, 0, 0, time.UTC),
	}
}

func halfYearBounds(year, month int) DateRange {
	startMonth, endMonth := time.January, time.June
	if month > 6 {
		startMonth, endMonth = time.July, time.December
	}
	return DateRange{
		Start: time.Date(year, startMonth, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, endMonth, lastDayOfMonth(year, int(endMonth)), 0, 0, 0, 0, time.UTC),
	}
}

func yearBounds(year int) DateRange {
	return DateRange{
		Start: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

func lastDayOfMonth(year, month int) int {
	switch time.Month(month) {
	case time.January, time.March, time.May, time.July, time.August, time.October, time.December:
		return 31
	case time.April, time.June, time.September, time.November:
		return 30
	default: // February
		if isLeapYear(year) {
			return 29
		}
		return 28
	}
}

func isLeapYear(year int) bool {
	return (year%4 == 0 && year%100 != 0) || year%400 == 0
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// FormatLabel renders a date as "D Mon YYYY", e.g. "5 Mar 2026".
func FormatLabel(d time.Time) string {
	return d.Format("2 Jan 2006")
}

// RangeLabel renders a DateRange as "D Mon YYYY - D Mon YYYY".
func RangeLabel(r DateRange) string {
	return FormatLabel(r.Start) + " - " + FormatLabel(r.End)
}

// AnchorQuery builds the query string fragment used by navigation links
// and the redirect-URL round-trip (spec.md §4.7).
func AnchorQuery(param string, preset Preset, anchor time.Time) string {
	return param + "=" + preset.QueryValue() + "&anchor=" + anchor.Format("2006-01-02")
}

// NavLink is one prev/next/latest navigation target.
type NavLink struct {
	Range DateRange
	Href  string
}

// Navigation holds the current range plus optional prev/next links.
type Navigation struct {
	Range DateRange
	Prev  *NavLink
	Next  *NavLink
}

// NewNavigation computes prev/next by snapping the day before Start and
// the day after End to the same preset, then suppresses a link whose
// resulting range falls entirely outside bounds — the stored min/max
// transaction dates (spec.md §4.5: "Links are suppressed when the
// adjacent window falls entirely outside the min/max transaction dates
// actually present in the store").
func NewNavigation(param string, preset Preset, r DateRange, bounds *DateRange) Navigation {
	prevAnchor := r.Start.AddDate(0, 0, -1)
	nextAnchor := r.End.AddDate(0, 0, 1)
	prevRange := ComputeRange(preset, prevAnchor)
	nextRange := ComputeRange(preset, nextAnchor)

	nav := Navigation{Range: r}
	if bounds == nil {
		return nav
	}

	if !prevRange.End.Before(bounds.Start) {
		nav.Prev = &NavLink{Range: prevRange, Href: AnchorQuery(param, preset, prevRange.End)}
	}
	if !nextRange.Start.After(bounds.End) {
		nav.Next = &NavLink{Range: nextRange, Href: AnchorQuery(param, preset, nextRange.End)}
	}
	return nav
}
