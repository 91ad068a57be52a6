// Package ledgererr defines the single enumerated error taxonomy used across
// the store, domain services, and request handlers. Handlers decide how to
// surface a Kind: a full-page error view, an HTML alert fragment, or a
// form re-render with an inline message.
package ledgererr

import (
	"errors"
	"fmt"
)

// Kind enumerates every domain failure mode the system distinguishes.
type Kind int

const (
	Unspecified Kind = iota
	InvalidCredentials
	CookieMissing
	InvalidDateFormat
	TooWeak
	HashingError
	InvalidTag
	EmptyTagName
	FutureDate
	InvalidAmount
	DuplicateImportId
	DuplicateAccountName
	MultipartError
	NotCSV
	InvalidCSV
	NotFound
	SqlError
	DatabaseLockError
	InvalidTimezone
	UpdateMissingTransaction
	UpdateMissingAccount
	UpdateMissingTag
	UpdateMissingRule
	DeleteMissingTransaction
	DeleteMissingAccount
	DeleteMissingTag
	DeleteMissingRule
)

func (k Kind) String() string {
	switch k {
	case InvalidCredentials:
		return "InvalidCredentials"
	case CookieMissing:
		return "CookieMissing"
	case InvalidDateFormat:
		return "InvalidDateFormat"
	case TooWeak:
		return "TooWeak"
	case HashingError:
		return "HashingError"
	case InvalidTag:
		return "InvalidTag"
	case EmptyTagName:
		return "EmptyTagName"
	case FutureDate:
		return "FutureDate"
	case InvalidAmount:
		return "InvalidAmount"
	case DuplicateImportId:
		return "DuplicateImportId"
	case DuplicateAccountName:
		return "DuplicateAccountName"
	case MultipartError:
		return "MultipartError"
	case NotCSV:
		return "NotCSV"
	case InvalidCSV:
		return "InvalidCSV"
	case NotFound:
		return "NotFound"
	case SqlError:
		return "SqlError"
	case DatabaseLockError:
		return "DatabaseLockError"
	case InvalidTimezone:
		return "InvalidTimezone"
	case UpdateMissingTransaction:
		return "UpdateMissingTransaction"
	case UpdateMissingAccount:
		return "UpdateMissingAccount"
	case UpdateMissingTag:
		return "UpdateMissingTag"
	case UpdateMissingRule:
		return "UpdateMissingRule"
	case DeleteMissingTransaction:
		return "DeleteMissingTransaction"
	case DeleteMissingAccount:
		return "DeleteMissingAccount"
	case DeleteMissingTag:
		return "DeleteMissingTag"
	case DeleteMissingRule:
		return "DeleteMissingRule"
	default:
		return "Unspecified"
	}
}

// Error is the concrete error type carried through the system. Message is a
// human-readable, user-safe description; Cause is the wrapped underlying
// error (an SQL driver error, a parse error, etc.) and may be nil.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is lets errors.Is(err, ledgererr.New(kind, "")) match by Kind alone,
// ignoring Message/Cause. This lets call sites write
// errors.Is(err, ledgererr.New(ledgererr.NotFound, "")).
func (e *Error) Is(target error) bool {
	var other *Error
	if !errors.As(target, &other) {
		return false
	}
	return e.Kind == other.Kind
}

// Of reports whether err (or something it wraps) carries the given Kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// KindOf extracts the Kind from err, returning Unspecified if err is not (or
// does not wrap) a *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unspecified
}
