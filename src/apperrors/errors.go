// Package apperrors defines the error kinds surfaced by the asset core.
// Every error leaving a service is an *Error carrying a stable Kind that the
// HTTP layer maps to a status code.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindInvalidAsset     Kind = "invalid_asset"
	KindNotFound         Kind = "not_found"
	KindForbidden        Kind = "forbidden"
	KindImportValidation Kind = "import_validation_failure"
	KindPersistence      Kind = "persistence_failure"
	KindUnauthorized     Kind = "unauthorized"
	KindConflict         Kind = "conflict"
	KindInvalidRequest   Kind = "invalid_request"
	KindRateLimited      Kind = "rate_limited"
	KindTimeout          Kind = "timeout"
)

type Error struct {
	Kind    Kind
	Message string
	// Row is the 1-based row of an import batch; zero outside imports.
	Row   int
	Field string
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func InvalidAsset(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidAsset, Message: fmt.Sprintf(format, args...)}
}

// InvalidRequest reports a malformed payload that is not an asset, such as
// registration or client data.
func InvalidRequest(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidRequest, Message: fmt.Sprintf(format, args...)}
}

func RateLimited(message string) *Error {
	return &Error{Kind: KindRateLimited, Message: message}
}

// Timeout reports an operation that ran past its deadline.
func Timeout(message string) *Error {
	return &Error{Kind: KindTimeout, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// ImportValidation reports the first offending row and field of a batch.
func ImportValidation(row int, field, reason string) *Error {
	return &Error{
		Kind:    KindImportValidation,
		Message: fmt.Sprintf("row %d: %s %s", row, field, reason),
		Row:     row,
		Field:   field,
	}
}

// Persistence wraps a store failure. The wrapped error is kept for logs but
// never rendered to callers.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: op, Err: err}
}

// Wrap attaches a cause to an existing kind without changing its message.
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

// KindOf returns the Kind of the first *Error in err's chain, or
// KindPersistence for foreign errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindPersistence
}

func Is(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
