package ingest

import (
	"strings"
	"time"
	"unicode"
)

// ColumnMapping describes how to read one bank's CSV layout into a
// canonical row: which column holds what, the amount's regional format,
// and the date layout. It is produced once per file (by ResolveMapping)
// and then applied to every data row by ParseRow.
type ColumnMapping struct {
	DateCol          int
	DescCol          int
	AmountCol        int // single signed-amount column; -1 if double-entry
	DebitCol         int // -1 unless IsDoubleEntry
	CreditCol        int // -1 unless IsDoubleEntry
	BalanceCol       int // -1 if the file carries no running-balance column
	AccountCol       int // -1 if the file carries no per-row account name
	IsDoubleEntry    bool
	IsEuropeanFormat bool
	DateFormat       string
	Location         *time.Location
}

// Dialect is a closed, named bank layout recognized purely from its
// header row. The registry is the only place new banks are added; the
// ingestion pipeline itself never special-cases a bank by name.
type Dialect struct {
	Name string
	// Matches reports whether this dialect recognizes the given headers.
	Matches func(headers []string) bool
}

// Dialects is the closed set tried in order; the first match wins. The
// final entry is a catch-all that defers entirely to the generic
// keyword-based column suggestions in sniffer.go, so any header set
// that isn't one of the named dialects below still gets a best-effort
// mapping instead of an outright rejection.
var Dialects = []Dialect{
	{
		Name: "portuguese-double-entry",
		Matches: func(headers []string) bool {
			return hasHeaderContaining(headers, "débito", "debito") &&
				hasHeaderContaining(headers, "crédito", "credito")
		},
	},
	{
		Name: "generic-single-amount",
		Matches: func(headers []string) bool {
			return hasHeaderContaining(headers, "amount", "montante", "valor")
		},
	},
	{
		Name: "catch-all",
		Matches: func(headers []string) bool {
			return true
		},
	},
}

func hasHeaderContaining(headers []string, needles ...string) bool {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, needle := range needles {
			if strings.Contains(lower, needle) {
				return true
			}
		}
	}
	return false
}

// SelectDialect returns the first dialect in the registry whose Matches
// predicate accepts headers. Dialects is terminated by a catch-all, so
// this always returns a result.
func SelectDialect(headers []string) Dialect {
	for _, d := range Dialects {
		if d.Matches(headers) {
			return d
		}
	}
	return Dialects[len(Dialects)-1]
}

// ResolveMapping fills in any column indexes left unset (-1) in override
// using the generic header-keyword suggestions, and fails if the result
// still doesn't have enough columns to parse a row.
func ResolveMapping(config *FileConfig, override ColumnMapping) (ColumnMapping, error) {
	suggestions := SuggestColumns(config.Headers)
	resolved := override

	if resolved.DateCol < 0 {
		resolved.DateCol = suggestions.DateCol
	}
	if resolved.DescCol < 0 {
		resolved.DescCol = suggestions.DescCol
	}
	if resolved.BalanceCol < 0 {
		resolved.BalanceCol = suggestions.BalanceCol
	}
	if resolved.AccountCol < 0 {
		resolved.AccountCol = suggestions.AccountCol
	}

	if resolved.IsDoubleEntry || resolved.DebitCol >= 0 || resolved.CreditCol >= 0 {
		resolved.IsDoubleEntry = true
		if resolved.DebitCol < 0 {
			resolved.DebitCol = suggestions.DebitCol
		}
		if resolved.CreditCol < 0 {
			resolved.CreditCol = suggestions.CreditCol
		}
	} else if resolved.AmountCol < 0 {
		if suggestions.AmountCol >= 0 {
			resolved.AmountCol = suggestions.AmountCol
		} else if suggestions.IsDoubleEntry {
			resolved.IsDoubleEntry = true
			resolved.DebitCol = suggestions.DebitCol
			resolved.CreditCol = suggestions.CreditCol
		}
	}

	if resolved.DateCol < 0 || resolved.DescCol < 0 {
		return resolved, ErrNoHeadersFound
	}
	if resolved.IsDoubleEntry {
		if resolved.DebitCol < 0 || resolved.CreditCol < 0 {
			return resolved, ErrNoHeadersFound
		}
	} else if resolved.AmountCol < 0 {
		return resolved, ErrNoHeadersFound
	}

	return resolved, nil
}

// ApplyFormatDefaults fills DateFormat and IsEuropeanFormat from sample
// data when the caller hasn't pinned them explicitly.
func ApplyFormatDefaults(config *FileConfig, mapping *ColumnMapping) {
	if mapping.DateFormat == "" {
		samples := collectColumn(config.SampleRows, mapping.DateCol)
		if len(samples) > 0 {
			mapping.DateFormat = DetectDateFormat(samples)
		}
	}

	if european, ok := detectEuropeanFormat(config.SampleRows, *mapping); ok {
		mapping.IsEuropeanFormat = european
	} else {
		mapping.IsEuropeanFormat = config.Delimiter == ';'
	}
}

// ParsedRow is the pure output of applying a ColumnMapping to one CSV
// record: canonical date/description/amount, ready for import-id hashing
// and store insertion.
type ParsedRow struct {
	Date        time.Time
	Description string
	Amount      float64
	Balance     *float64 // nil if the dialect carries no running-balance column
	Account     string   // "" if the dialect carries no per-row account name
}

// ParseRow converts one CSV record into a ParsedRow per mapping. It is a
// pure function of (record, mapping): no I/O, no shared state, so a new
// bank dialect only has to know how to produce a ColumnMapping, never
// how to parse a row itself.
func ParseRow(record []string, mapping ColumnMapping) (ParsedRow, error) {
	maxCol := len(record) - 1
	if mapping.DateCol > maxCol || mapping.DescCol > maxCol {
		return ParsedRow{}, ErrInvalidDate
	}

	date, err := ParseFlexibleDate(record[mapping.DateCol], mapping.DateFormat, mapping.Location)
	if err != nil {
		return ParsedRow{}, err
	}

	description := CleanDescription(record[mapping.DescCol])
	if description == "" {
		return ParsedRow{}, ErrInvalidAmount
	}

	var amount float64
	if mapping.IsDoubleEntry {
		if mapping.DebitCol > maxCol || mapping.CreditCol > maxCol {
			return ParsedRow{}, ErrInvalidAmount
		}
		var debitStr, creditStr string
		if mapping.DebitCol >= 0 {
			debitStr = record[mapping.DebitCol]
		}
		if mapping.CreditCol >= 0 {
			creditStr = record[mapping.CreditCol]
		}
		amount, err = NormalizeDebitCredit(debitStr, creditStr, mapping.IsEuropeanFormat)
	} else {
		if mapping.AmountCol > maxCol {
			return ParsedRow{}, ErrInvalidAmount
		}
		amount, err = ParseAmount(record[mapping.AmountCol], mapping.IsEuropeanFormat)
	}
	if err != nil {
		return ParsedRow{}, err
	}

	row := ParsedRow{Date: date, Description: description, Amount: amount}

	if mapping.BalanceCol >= 0 && mapping.BalanceCol <= maxCol {
		if b, err := ParseAmount(record[mapping.BalanceCol], mapping.IsEuropeanFormat); err == nil {
			row.Balance = &b
		}
	}
	if mapping.AccountCol >= 0 && mapping.AccountCol <= maxCol {
		row.Account = CleanDescription(record[mapping.AccountCol])
	}

	return row, nil
}

func collectColumn(rows [][]string, col int) []string {
	if col < 0 {
		return nil
	}
	samples := make([]string, 0, len(rows))
	for _, row := range rows {
		if col < len(row) {
			if v := strings.TrimSpace(row[col]); v != "" {
				samples = append(samples, v)
			}
		}
	}
	return samples
}

func detectEuropeanFormat(rows [][]string, mapping ColumnMapping) (bool, bool) {
	var samples []string
	if mapping.IsDoubleEntry {
		samples = append(collectColumn(rows, mapping.DebitCol), collectColumn(rows, mapping.CreditCol)...)
	} else {
		samples = collectColumn(rows, mapping.AmountCol)
	}

	europeanHints, usHints := 0, 0
	for _, raw := range samples {
		cleaned := strings.Map(func(r rune) rune {
			if unicode.IsDigit(r) || r == ',' || r == '.' || r == '-' {
				return r
			}
			return -1
		}, raw)
		cleaned = strings.TrimPrefix(cleaned, "-")
		if cleaned == "" {
			continue
		}
		hasComma := strings.Contains(cleaned, ",")
		hasDot := strings.Contains(cleaned, ".")
		switch {
		case hasComma && hasDot:
			if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
				europeanHints++
			} else {
				usHints++
			}
		case hasComma:
			if hasDecimalSuffix(cleaned, ',') {
				europeanHints++
			}
		case hasDot:
			if hasDecimalSuffix(cleaned, '.') {
				usHints++
			}
		}
	}

	if europeanHints == 0 && usHints == 0 {
		return false, false
	}
	if europeanHints == usHints {
		return false, false
	}
	return europeanHints > usHints, true
}

func hasDecimalSuffix(value string, sep rune) bool {
	idx := strings.LastIndex(value, string(sep))
	if idx == -1 || idx == len(value)-1 {
		return false
	}
	digits := 0
	for _, r := range value[idx+1:] {
		if !unicode.IsDigit(r) {
			return false
		}
		digits++
		if digits > 2 {
			return false
		}
	}
	return digits > 0
}
