// Package model defines the typed ledger entities and their validating
// constructors. Every entity exposes a checked constructor used at the
// create/edit boundary, and an `_unchecked` constructor used when loading
// trusted rows back out of the store.
package model

import (
	"strings"
	"time"

	"github.com/FACorreiaa/ledger/internal/ledgererr"
)

// DatabaseID is the store-assigned identifier type. Zero and negative values
// are never valid.
type DatabaseID int64

// TransactionType is derived from the sign of a Transaction's Amount, never
// stored directly.
type TransactionType int

const (
	Expense TransactionType = iota
	Income
)

// User is the sole registered operator. Exactly zero or one exists at any
// time; auth.Service.Register rejects a second registration (the user
// table itself has no constraint limiting it to one row).
type User struct {
	ID           DatabaseID
	PasswordHash string
}

// NewUser validates a freshly hashed password before persisting the first
// (and only) user. passwordHash must already be the output of a PasswordHasher.
func NewUser(passwordHash string) (User, error) {
	if strings.TrimSpace(passwordHash) == "" {
		return User{}, ledgererr.New(ledgererr.HashingError, "password hash must not be empty")
	}
	return User{PasswordHash: passwordHash}, nil
}

// Tag is a classification label applied to transactions.
type Tag struct {
	ID   DatabaseID
	Name string
}

// NewTag trims name and rejects it if empty.
func NewTag(name string) (Tag, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Tag{}, ledgererr.New(ledgererr.EmptyTagName, "tag name must not be empty")
	}
	return Tag{Name: trimmed}, nil
}

func NewTagUnchecked(id DatabaseID, name string) Tag {
	return Tag{ID: id, Name: name}
}

// Rule is an auto-tagging directive: transactions whose description starts
// with Pattern (case-insensitive) are assigned TagID.
type Rule struct {
	ID      DatabaseID
	Pattern string
	TagID   DatabaseID
}

// NewRule rejects an empty pattern or a zero/negative tag id.
func NewRule(pattern string, tagID DatabaseID) (Rule, error) {
	trimmed := strings.TrimSpace(pattern)
	if trimmed == "" {
		return Rule{}, ledgererr.New(ledgererr.InvalidTag, "rule pattern must not be empty")
	}
	if tagID <= 0 {
		return Rule{}, ledgererr.New(ledgererr.InvalidTag, "rule must reference a valid tag")
	}
	return Rule{Pattern: trimmed, TagID: tagID}, nil
}

func NewRuleUnchecked(id DatabaseID, pattern string, tagID DatabaseID) Rule {
	return Rule{ID: id, Pattern: pattern, TagID: tagID}
}

// Matches reports whether description (lower-cased, left-trimmed) begins
// with the rule's pattern (also lower-cased). This is the sole matching
// primitive the auto-tagging engine (package tagging) builds on.
func (r Rule) Matches(description string) bool {
	desc := strings.ToLower(strings.TrimLeft(description, " \t"))
	pattern := strings.ToLower(r.Pattern)
	return strings.HasPrefix(desc, pattern)
}

// Account is a point-in-time balance snapshot for a named account.
type Account struct {
	ID      DatabaseID
	Name    string
	Balance float64
	Date    time.Time
}

func NewAccount(name string, balance float64, date time.Time) (Account, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Account{}, ledgererr.New(ledgererr.DuplicateAccountName, "account name must not be empty")
	}
	return Account{Name: trimmed, Balance: balance, Date: date}, nil
}

// ExcludedTag marks a Tag whose transactions are omitted from bucket totals
// and category summaries, while remaining visible in plain listings.
type ExcludedTag struct {
	TagID DatabaseID
}

// UntaggedQueueEntry materializes the quick-tagging queue. Rows are inserted
// by the ingestion pipeline and removed by trigger T1 whenever the
// referenced transaction's tag_id is set to a non-null value.
type UntaggedQueueEntry struct {
	TransactionID DatabaseID
	CreatedAt     time.Time
}

// Transaction is the ledger entry. Amount is signed: negative is an expense,
// positive is income. TagID and ImportID are optional.
type Transaction struct {
	ID          DatabaseID
	Amount      float64
	Date        time.Time
	Description string
	TagID       *DatabaseID
	ImportID    *int64
}

// Type derives the transaction's polymorphic type from the sign of Amount.
func (t Transaction) Type() TransactionType {
	if t.Amount >= 0 {
		return Income
	}
	return Expense
}

// TransactionBuilder accumulates fields for Build/BuildUnchecked, mirroring
// the teacher's builder pattern for multi-field validated construction.
type TransactionBuilder struct {
	amount      float64
	date        time.Time
	description string
	tagID       *DatabaseID
	importID    *int64
}

func NewTransactionBuilder(amount float64) TransactionBuilder {
	return TransactionBuilder{amount: amount, date: time.Now().UTC()}
}

func (b TransactionBuilder) Date(d time.Time) TransactionBuilder {
	b.date = d
	return b
}

func (b TransactionBuilder) Description(d string) TransactionBuilder {
	b.description = d
	return b
}

func (b TransactionBuilder) Tag(id *DatabaseID) TransactionBuilder {
	b.tagID = id
	return b
}

func (b TransactionBuilder) ImportID(id *int64) TransactionBuilder {
	b.importID = id
	return b
}

// Build validates the accumulated fields at the create/edit boundary: the
// date must not be in the future relative to now, evaluated in loc (the
// process-wide configured local timezone).
//
// Once the date passes, it returns the same Transaction BuildUnchecked
// would.
func (b TransactionBuilder) Build(now time.Time, loc *time.Location) (Transaction, error) {
	today := now.In(loc)
	asOfLoc := b.date.In(loc)
	if asOfLoc.After(today) {
		return Transaction{}, ledgererr.New(ledgererr.FutureDate, "transaction date must not be in the future")
	}
	return b.BuildUnchecked(), nil
}

// BuildUnchecked skips the future-date check, for loading trusted data.
func (b TransactionBuilder) BuildUnchecked() Transaction {
	return Transaction{
		Amount:      b.amount,
		Date:        b.date,
		Description: b.description,
		TagID:       b.tagID,
		ImportID:    b.importID,
	}
}
