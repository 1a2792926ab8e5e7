// Package apperr defines the error taxonomy shared by the permission core and
// its collaborators.
//
// Every failure the core surfaces carries a [Kind] and a human-readable
// message. The HTTP layer (out of scope for this module) translates kinds into
// status codes; the core itself never inspects messages, only kinds. Errors
// wrap an optional cause so that store failures remain inspectable with
// [errors.Is] and [errors.As].
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindApp is a structured business-rule violation carrying an explicit
	// status code, for example "comment text cannot be empty".
	KindApp Kind = iota
	// KindNotFound means a referenced entity does not exist, or a required
	// identity claim is missing.
	KindNotFound
	// KindForbidden means the caller is authenticated but lacks ownership or
	// role to perform the action.
	KindForbidden
	// KindValidation means the input was malformed.
	KindValidation
	// KindUnavailable means a store operation failed.
	KindUnavailable
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindUnavailable:
		return "unavailable"
	default:
		return "app"
	}
}

// Error is the concrete error type returned by the permission core.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause for errors.Is / errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

// Is reports kind equality, so callers can match with a bare kinded error:
//
//	errors.Is(err, &Error{Kind: KindForbidden})
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// New builds a generic application error with an explicit status code.
func New(status int, message string) *Error {
	return &Error{Kind: KindApp, Status: status, Message: message}
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// NotFoundf builds a KindNotFound error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return NotFound(fmt.Sprintf(format, args...))
}

// Forbidden builds a KindForbidden error.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Status: http.StatusForbidden, Message: message}
}

// Forbiddenf builds a KindForbidden error with a formatted message.
func Forbiddenf(format string, args ...any) *Error {
	return Forbidden(fmt.Sprintf(format, args...))
}

// Validation builds a KindValidation error.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Status: http.StatusBadRequest, Message: message}
}

// Unavailable wraps a failed store operation.
func Unavailable(message string, cause error) *Error {
	return &Error{Kind: KindUnavailable, Status: http.StatusServiceUnavailable, Message: message, Err: cause}
}

// KindOf extracts the kind from err, or KindApp when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindApp
}

// StatusOf extracts the HTTP status from err, defaulting to 400 for plain
// errors per the generic application error contract.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusBadRequest
}

// IsNotFound reports whether err is a KindNotFound error.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNotFound
}

// IsForbidden reports whether err is a KindForbidden error.
func IsForbidden(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindForbidden
}
