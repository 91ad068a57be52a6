// Package ingest parses bank-statement CSV files into canonical transactions.
//
// This file detects the dialect of an uploaded file: its delimiter, the row
// at which the header starts, and a fingerprint of the header so a dialect
// can be remembered and reapplied on future uploads without re-prompting the
// user for a column mapping.
package ingest

import (
	"bytes"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"unicode"
)

// Common bank statement header keywords (multi-language)
var headerKeywords = []string{
	// Portuguese
	"data mov", "data mov.", "descrição", "descricao", "débito", "debito", "crédito", "credito",
	"data valor", "saldo", "categoria",
	// English
	"date", "description", "amount", "debit", "credit", "balance", "category", "merchant",
	// Spanish
	"fecha", "descripción", "descripcion", "importe", "cargo", "abono",
}

// FileConfig holds the detected configuration for a CSV/TSV file
type FileConfig struct {
	Delimiter   rune       // The field delimiter (';', ',', '\t')
	SkipLines   int        // Number of metadata lines before headers
	Headers     []string   // Detected header names
	Fingerprint string     // SHA256 hash of normalized headers
	SampleRows  [][]string // First few data rows for preview
}

// ColumnSuggestions provides auto-detected column indices
type ColumnSuggestions struct {
	DateCol       int  // Suggested date column index (-1 if not found)
	DescCol       int  // Suggested description column index
	AmountCol     int  // Suggested single amount column (-1 if separate debit/credit)
	DebitCol      int  // Suggested debit column index
	CreditCol     int  // Suggested credit column index
	CategoryCol   int  // Suggested category column index (-1 if not found)
	BalanceCol    int  // Suggested running-balance column index (-1 if not found)
	AccountCol    int  // Suggested account-name column index (-1 if not found)
	IsDoubleEntry bool // True if separate debit/credit columns detected
}

var (
	ErrEmptyFile        = errors.New("file is empty")
	ErrNoHeadersFound   = errors.New("could not find data headers")
	ErrInvalidDelimiter = errors.New("could not detect valid delimiter")
)

// DetectConfig analyzes a CSV/TSV file and returns its configuration
func DetectConfig(data []byte) (*FileConfig, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	lines := strings.Split(string(data), "\n")
	if len(lines) == 0 {
		return nil, ErrEmptyFile
	}

	// Try to find the header row
	delimiter, skipLines, err := findHeaderRow(lines)
	if err != nil {
		return nil, err
	}

	// Parse headers
	headerLine := lines[skipLines]
	reader := csv.NewReader(strings.NewReader(headerLine))
	reader.Comma = delimiter
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		return nil, err
	}

	// Clean headers
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
	}

	// Generate fingerprint
	fingerprint := generateFingerprint(headers)

	// Get sample rows (up to 5)
	sampleRows := getSampleRows(data, delimiter, skipLines+1, 5)

	return &FileConfig{
		Delimiter:   delimiter,
		SkipLines:   skipLines,
		Headers:     headers,
		Fingerprint: fingerprint,
		SampleRows:  sampleRows,
	}, nil
}

// columnGuess pairs a ColumnSuggestions field with the predicate that
// recognizes it from a lower-cased, trimmed header string. exact lists
// headers that must match in full (to avoid e.g. "categoria" swallowing a
// column literally named "data"); contains lists substrings anywhere in
// the header.
type columnGuess struct {
	field    *int
	exact    []string
	contains []string
}

func (g columnGuess) matches(h string) bool {
	for _, e := range g.exact {
		if h == e {
			return true
		}
	}
	for _, c := range g.contains {
		if strings.Contains(h, c) {
			return true
		}
	}
	return false
}

// SuggestColumns attempts to auto-match columns based on header names.
// Each field claims the first header that matches its guess and is never
// reassigned afterward, so column order in a multi-language header row
// never overwrites an earlier, more specific match.
func SuggestColumns(headers []string) *ColumnSuggestions {
	suggestions := &ColumnSuggestions{
		DateCol:     -1,
		DescCol:     -1,
		AmountCol:   -1,
		DebitCol:    -1,
		CreditCol:   -1,
		CategoryCol: -1,
		BalanceCol:  -1,
		AccountCol:  -1,
	}

	guesses := []columnGuess{
		{field: &suggestions.DateCol, exact: []string{"data"}, contains: []string{"data mov", "date", "fecha"}},
		{field: &suggestions.DescCol, exact: []string{"nome", "name"}, contains: []string{"descri", "merchant", "description"}},
		{field: &suggestions.DebitCol, contains: []string{"débito", "debito", "debit", "cargo"}},
		{field: &suggestions.CreditCol, contains: []string{"crédito", "credito", "credit", "abono"}},
		{field: &suggestions.AmountCol, exact: []string{"amount", "valor", "importe", "montante"}},
		{field: &suggestions.CategoryCol, contains: []string{"categ", "category", "tipo", "type"}},
		{field: &suggestions.BalanceCol, contains: []string{"saldo", "balance"}},
		{field: &suggestions.AccountCol, contains: []string{"conta", "account", "iban"}},
	}

	for i, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		for _, g := range guesses {
			if *g.field == -1 && g.matches(h) {
				*g.field = i
			}
		}
	}

	suggestions.IsDoubleEntry = suggestions.DebitCol != -1 && suggestions.CreditCol != -1

	return suggestions
}

// candidateDelimiters are tried in this order against whichever line
// looksLikeHeaderRow accepts first; a bank statement's metadata preamble
// (account number, date range, opening/closing balance) never carries one
// of these at high enough density to be mistaken for the header.
var candidateDelimiters = []rune{';', '\t', ',', '|'}

// maxPreambleLines bounds how far findHeaderRow scans before giving up,
// so a file with no recognizable header fails fast instead of scanning
// to EOF.
const maxPreambleLines = 20

// findHeaderRow locates the header row and its delimiter by scanning the
// leading lines for one that both contains a known header keyword and
// splits into at least four columns under one of the candidate
// delimiters.
func findHeaderRow(lines []string) (rune, int, error) {
	for i, line := range lines {
		if i > maxPreambleLines {
			break
		}
		if !looksLikeHeaderRow(line) {
			continue
		}
		if d, ok := detectDelimiter(line); ok {
			return d, i, nil
		}
	}
	return 0, 0, ErrNoHeadersFound
}

func looksLikeHeaderRow(line string) bool {
	lower := strings.ToLower(line)
	for _, kw := range headerKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// detectDelimiter picks the first candidate that splits line into at
// least four fields (three separators).
func detectDelimiter(line string) (rune, bool) {
	const minSeparators = 3
	for _, d := range candidateDelimiters {
		if strings.Count(line, string(d)) >= minSeparators {
			return d, true
		}
	}
	return 0, false
}

// generateFingerprint creates a unique hash from header names
func generateFingerprint(headers []string) string {
	// Normalize headers: lowercase, remove non-alphanumeric, sort-ish
	var normalized []string
	for _, h := range headers {
		clean := strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return unicode.ToLower(r)
			}
			return -1
		}, h)
		if clean != "" {
			normalized = append(normalized, clean)
		}
	}

	// Join and hash
	joined := strings.Join(normalized, "|")
	hash := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(hash[:])
}

// getSampleRows returns the first N data rows after the header
func getSampleRows(data []byte, delimiter rune, startLine, maxRows int) [][]string {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable fields

	var rows [][]string
	lineNum := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		if lineNum >= startLine {
			rows = append(rows, record)
			if len(rows) >= maxRows {
				break
			}
		}
		lineNum++
	}

	return rows
}
