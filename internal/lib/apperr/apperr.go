// Package apperr classifies application errors into a small set of kinds
// that the transport layer maps to client-visible statuses.
package apperr

import (
	"errors"
	"net/http"
)

// Kind tags an error with the class of failure it represents.
type Kind uint8

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindNotFound
	KindDuplicateEmail
)

// String returns the machine-readable code of the kind.
func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "INVALID_INPUT"
	case KindNotFound:
		return "NOT_FOUND"
	case KindDuplicateEmail:
		return "DUPLICATE_EMAIL"
	case KindInternal:
		return "INTERNAL_ERROR"
	default:
		return "INTERNAL_ERROR"
	}
}

// HTTPStatus returns the status code a kind is reported with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindDuplicateEmail:
		return http.StatusConflict
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Kinded is implemented by errors that know their own kind.
type Kinded interface {
	error
	Kind() Kind
}

// Error is a generic kinded error with an optional cause and details.
type Error struct {
	kind    Kind
	Message string
	Details map[string]any
	Err     error
}

// New creates a kinded error.
func New(kind Kind, message string, details map[string]any) *Error {
	return &Error{kind: kind, Message: message, Details: details}
}

// Wrap creates a kinded error around a cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{kind: kind, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Kind returns the kind of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// KindOf walks the error chain and returns the first kind found.
// Errors without a kind are internal.
func KindOf(err error) Kind {
	var kinded Kinded
	if errors.As(err, &kinded) {
		return kinded.Kind()
	}
	return KindInternal
}
