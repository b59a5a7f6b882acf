// Package apperr defines the closed error taxonomy for the sales core.
// Callers branch on Kind instead of parsing messages.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure
type Kind int

const (
	// KindValidation covers empty carts, missing customer selection and
	// non-positive quantities. Nothing was changed.
	KindValidation Kind = iota
	// KindNotFound covers unknown SKUs, employees, customers and sale ids
	KindNotFound
	// KindInsufficientStock means a requested quantity exceeded live
	// stock; the whole operation was rolled back
	KindInsufficientStock
	// KindConcurrencyConflict means a racing transaction invalidated this
	// one; the caller may retry
	KindConcurrencyConflict
	// KindPersistence covers storage failures during a commit; nothing
	// was partially written
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindInsufficientStock:
		return "insufficient_stock"
	case KindConcurrencyConflict:
		return "concurrency_conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "unknown"
	}
}

// Error is the single error type returned across the sales core
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches two errors by Kind so sentinel comparisons with errors.Is work
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Validation returns a new validation error
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound returns a new not-found error
func NotFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

// InsufficientStock returns a new insufficient-stock error
func InsufficientStock(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInsufficientStock, Msg: fmt.Sprintf(format, args...)}
}

// ConcurrencyConflict wraps a driver error signalling a serialization
// failure or deadlock
func ConcurrencyConflict(msg string, err error) *Error {
	return &Error{Kind: KindConcurrencyConflict, Msg: msg, Err: err}
}

// Persistence wraps an unexpected storage error
func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// KindOf extracts the Kind from err, or KindPersistence when err is not
// an *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// IsKind reports whether err carries the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
