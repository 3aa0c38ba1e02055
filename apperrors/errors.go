package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable machine-readable classification of a failure.
type Kind string

const (
	Validation        Kind = "VALIDATION"
	NotFound          Kind = "NOT_FOUND"
	Conflict          Kind = "CONFLICT"
	Unauthorized      Kind = "UNAUTHORIZED"
	Forbidden         Kind = "FORBIDDEN"
	InsufficientStock Kind = "INSUFFICIENT_STOCK"
	TokenInvalid      Kind = "TOKEN_INVALID"
	TokenMalformed    Kind = "TOKEN_MALFORMED"
	Configuration     Kind = "CONFIGURATION"
	Internal          Kind = "INTERNAL"
)

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

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the Kind of err, or Internal when err carries no taxonomy.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps an error kind to the status code handlers respond with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case Validation, TokenMalformed:
		return http.StatusBadRequest
	case Unauthorized, TokenInvalid:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case InsufficientStock:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the human message of err without the wrapped cause.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
