// Package apperr defines the request-scoped error taxonomy shared by all
// usecases. Handlers map a Kind to an HTTP status; usecases attach the
// details callers need to recover (offending field, projected stock).
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindInvalidAdjustment Kind = "invalid_adjustment"
	KindNotFound          Kind = "not_found"
	KindConflict          Kind = "conflict"
	KindUnavailable       Kind = "unavailable"
	KindPersistence       Kind = "persistence"
	KindInternal          Kind = "internal"
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error

	// Field names the offending input field for validation errors.
	Field string

	// Projected carries the physical stock an adjustment would have produced,
	// so the caller can pick a smaller amount.
	Projected *int64
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(field, format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Field: field, Msg: fmt.Sprintf(format, args...)}
}

func InvalidAdjustment(projected int64, format string, args ...any) *Error {
	return &Error{Kind: KindInvalidAdjustment, Projected: &projected, Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Msg: fmt.Sprintf(format, args...)}
}

func Unavailable(format string, args ...any) *Error {
	return &Error{Kind: KindUnavailable, Msg: fmt.Sprintf(format, args...)}
}

func Persistence(msg string, err error) *Error {
	return &Error{Kind: KindPersistence, Msg: msg, Err: err}
}

// KindOf reports the Kind of err, or KindInternal for errors outside the
// taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As unwraps err into *Error if it belongs to the taxonomy.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
