// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services return an *Error carrying a Kind; handlers map the Kind to
// a status code without inspecting message strings.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error into one of the client-facing categories.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

// Error is a business error with an HTTP-mappable kind.
type Error struct {
	Kind    Kind
	Message string
	Err     error // optional wrapped cause
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "internal error"
}

func (e *Error) Unwrap() error { return e.Err }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ── Constructors ─────────────────────────────────────────────────────────────

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected failure. The message shown to clients is
// generic; the cause is preserved for logging.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// ── Predicates ───────────────────────────────────────────────────────────────

func kindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return KindInternal, false
}

func IsValidation(err error) bool { k, ok := kindOf(err); return ok && k == KindValidation }
func IsNotFound(err error) bool   { k, ok := kindOf(err); return ok && k == KindNotFound }
func IsConflict(err error) bool   { k, ok := kindOf(err); return ok && k == KindConflict }
func IsForbidden(err error) bool  { k, ok := kindOf(err); return ok && k == KindForbidden }

// StatusOf maps any error to an HTTP status code. Non-apperr errors are 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status()
	}
	return http.StatusInternalServerError
}
