// Package apperr defines the error kinds surfaced by the attendance core.
//
// Every failure leaving a core operation is an *Error with a stable Kind and
// a human-readable message. Kinds map to HTTP statuses at the boundary.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable, client-visible category of an error.
type Kind string

const (
	Validation      Kind = "validation"
	SessionMismatch Kind = "session_mismatch"
	WindowClosed    Kind = "window_closed"
	AlreadyMarked   Kind = "already_marked"
	DeviceMismatch  Kind = "device_mismatch"
	NotAuthorized   Kind = "not_authorized"
	NotFound        Kind = "not_found"
	Internal        Kind = "internal"
)

// Error carries a Kind, a message, and optionally the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is(err, apperr.New(k, ""))
// tests the kind only.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New returns an *Error of kind k.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Internal (or given kind) error wrapping err.
func Wrap(k Kind, err error, message string) *Error {
	return &Error{Kind: k, Message: message, Err: err}
}

// KindOf returns the Kind of err, Internal for foreign errors and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// MessageOf returns the client-facing message of err. Foreign errors are
// reported generically so internals do not leak.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Message
	}
	return "internal error"
}

// IsKind reports whether err is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	return KindOf(err) == k
}

// HTTPStatus maps a Kind to its HTTP status code.
func HTTPStatus(k Kind) int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case SessionMismatch, WindowClosed, AlreadyMarked, DeviceMismatch:
		return http.StatusConflict
	case NotAuthorized:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
