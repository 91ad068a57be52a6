package ingest

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	ErrInvalidAmount = errors.New("invalid amount format")
	ErrInvalidDate   = errors.New("invalid date format")
)

// ParseAmount converts a string amount to a signed float64.
//
// Supports both European (1.234,56) and American (1,234.56) formats. Amounts
// are kept as float64 all the way through the ingestion pipeline to the
// transaction.amount column; this mirrors the store's REAL column and the
// spec's explicit choice not to move to a fixed-point representation.
func ParseAmount(raw string, isEuropean bool) (float64, error) {
	if raw == "" {
		return 0, nil
	}

	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
			return r
		}
		return -1
	}, raw)

	if cleaned == "" {
		return 0, nil
	}

	isNegative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")

	if isEuropean {
		// European: 1.234,56 -> 1234.56
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		// American: 1,234.56 -> 1234.56
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	if isNegative {
		val = -val
	}

	return val, nil
}

// NormalizeDebitCredit merges separate debit and credit columns into a single
// signed amount: debit becomes negative (money out), credit positive (money in).
func NormalizeDebitCredit(debitStr, creditStr string, isEuropean bool) (float64, error) {
	debitStr = strings.TrimSpace(debitStr)
	creditStr = strings.TrimSpace(creditStr)

	if debitStr != "" {
		amount, err := ParseAmount(debitStr, isEuropean)
		if err != nil {
			return 0, err
		}
		if amount > 0 {
			amount = -amount
		}
		return amount, nil
	}

	if creditStr != "" {
		amount, err := ParseAmount(creditStr, isEuropean)
		if err != nil {
			return 0, err
		}
		if amount < 0 {
			amount = -amount
		}
		return amount, nil
	}

	return 0, nil
}

// Common date formats used by banks worldwide, tried in order after the
// dialect's preferred format.
var dateFormats = []string{
	// European (DD-MM-YYYY variants)
	"02-01-2006",
	"02/01/2006",
	"02.01.2006",
	"2-1-2006",
	"2/1/2006",

	// American (MM-DD-YYYY variants)
	"01-02-2006",
	"01/02/2006",
	"1/2/2006",

	// ISO (YYYY-MM-DD)
	"2006-01-02",
	"2006/01/02",

	// With time
	"02-01-2006 15:04",
	"02/01/2006 15:04",
	"01/02/2006 15:04",
	"2006-01-02 15:04:05",
}

// ParseFlexibleDate attempts to parse a date using the dialect's preferred
// format, falling back to every other known format.
func ParseFlexibleDate(raw string, preferredFormat string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, ErrInvalidDate
	}

	if loc == nil {
		loc = time.UTC
	}

	if preferredFormat != "" {
		goFormat := convertDateFormat(preferredFormat)
		if t, err := time.ParseInLocation(goFormat, raw, loc); err == nil {
			return t, nil
		}
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, raw, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, ErrInvalidDate
}

// convertDateFormat converts user-friendly format strings to Go's reference
// layout, e.g. "DD-MM-YYYY" -> "02-01-2006".
func convertDateFormat(format string) string {
	// Ordered so that "YYYY" is replaced before "YY".
	replacements := []struct{ pattern, goFmt string }{
		{"YYYY", "2006"},
		{"YY", "06"},
		{"MM", "01"},
		{"DD", "02"},
		{"HH", "15"},
		{"mm", "04"},
		{"ss", "05"},
	}

	result := format
	for _, r := range replacements {
		result = strings.ReplaceAll(result, r.pattern, r.goFmt)
	}
	return result
}

// DetectDateFormat guesses the date format from sample data.
func DetectDateFormat(samples []string) string {
	if len(samples) == 0 {
		return "DD-MM-YYYY"
	}

	sample := strings.TrimSpace(samples[0])

	ddmmyyyyPattern := regexp.MustCompile(`^\d{1,2}[-/]\d{1,2}[-/]\d{4}$`)
	isoPattern := regexp.MustCompile(`^\d{4}[-/]\d{1,2}[-/]\d{1,2}$`)

	if isoPattern.MatchString(sample) {
		if strings.Contains(sample, "/") {
			return "YYYY/MM/DD"
		}
		return "YYYY-MM-DD"
	}

	if ddmmyyyyPattern.MatchString(sample) {
		parts := strings.FieldsFunc(sample, func(r rune) bool {
			return r == '-' || r == '/'
		})
		if len(parts) >= 2 {
			day, _ := strconv.Atoi(parts[0])
			if day > 12 {
				if strings.Contains(sample, "/") {
					return "DD/MM/YYYY"
				}
				return "DD-MM-YYYY"
			}
		}

		// Default to European format (more common globally outside the US).
		if strings.Contains(sample, "/") {
			return "DD/MM/YYYY"
		}
		return "DD-MM-YYYY"
	}

	return "DD-MM-YYYY"
}

// CleanDescription normalizes merchant/description text: trims and collapses
// internal whitespace runs.
func CleanDescription(raw string) string {
	result := strings.TrimSpace(raw)
	spacePattern := regexp.MustCompile(`\s+`)
	return spacePattern.ReplaceAllString(result, " ")
}
