package sharing

import (
	"errors"
	"fmt"
	"math"
	"time"

	"birthdays/internal/validation"
)

// Kind classifies a sharing error for transports.
type Kind string

const (
	KindNotFound         Kind = "NOT_FOUND"
	KindForbidden        Kind = "FORBIDDEN"
	KindExpiredOrInvalid Kind = "EXPIRED_OR_INVALID"
	KindRateLimited      Kind = "RATE_LIMITED"
	KindValidation       Kind = "VALIDATION_ERROR"
	KindInvalidState     Kind = "INVALID_STATE"
	KindInternal         Kind = "INTERNAL"
)

// Error is the error type returned by every sharing operation.
type Error struct {
	Kind       Kind
	Message    string
	RetryAfter time.Duration     // RATE_LIMITED only
	Fields     validation.Errors // VALIDATION_ERROR only
	Err        error
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

// Is matches any *Error of the same kind, so errors.Is(err, ErrForbidden)
// works for errors built with extra detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// RetryAfterSeconds rounds RetryAfter up to whole seconds.
func (e *Error) RetryAfterSeconds() int {
	if e.RetryAfter <= 0 {
		return 0
	}
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

var (
	ErrNotFound         = &Error{Kind: KindNotFound, Message: "not found"}
	ErrForbidden        = &Error{Kind: KindForbidden, Message: "forbidden"}
	ErrExpiredOrInvalid = &Error{Kind: KindExpiredOrInvalid, Message: "sharing link is invalid or has expired"}
	ErrRateLimited      = &Error{Kind: KindRateLimited, Message: "too many submissions, try again later"}
	ErrValidation       = &Error{Kind: KindValidation, Message: "validation failed"}
	ErrInvalidState     = &Error{Kind: KindInvalidState, Message: "submission has already been reviewed"}
	ErrInternal         = &Error{Kind: KindInternal, Message: "internal error"}
)

// RateLimited builds a RATE_LIMITED error carrying the wait time.
func RateLimited(retryAfter time.Duration) *Error {
	return &Error{Kind: KindRateLimited, Message: ErrRateLimited.Message, RetryAfter: retryAfter}
}

// Validation builds a VALIDATION_ERROR carrying every field violation.
func Validation(fields validation.Errors) *Error {
	return &Error{Kind: KindValidation, Message: fields.Error(), Fields: fields}
}

// Internal wraps an unexpected failure.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// KindOf returns the kind of err, or KindInternal when err is not a sharing
// error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError returns err as *Error, wrapping unknown errors as internal.
func AsError(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal("internal error", err)
}

// PublicKind is the kind an anonymous caller may see. Anything other than
// an invalid link, a rate limit or a validation failure is reported as
// internal.
func PublicKind(err error) Kind {
	switch k := KindOf(err); k {
	case KindExpiredOrInvalid, KindRateLimited, KindValidation:
		return k
	default:
		return KindInternal
	}
}
