// Package apperr classifies failures that cross the service boundary so
// handlers can map them to an HTTP status and a user-facing message.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Type int

const (
	Internal Type = iota
	Validation
	Unauthorized
	NotFound
	Conflict
)

func (t Type) String() string {
	switch t {
	case Validation:
		return "validation"
	case Unauthorized:
		return "unauthorized"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error carries a type, a message safe to show to clients, and an optional cause.
type Error struct {
	Type    Type
	Message string
	Err     error
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

// StatusCode maps the error type to an HTTP status.
func (e *Error) StatusCode() int {
	switch e.Type {
	case Validation:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func New(t Type, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

func NewValidation(message string) *Error {
	return New(Validation, message, nil)
}

func NewUnauthorized(message string, err error) *Error {
	return New(Unauthorized, message, err)
}

func NewNotFound(message string) *Error {
	return New(NotFound, message, nil)
}

func NewConflict(message string, err error) *Error {
	return New(Conflict, message, err)
}

func NewInternal(message string, err error) *Error {
	return New(Internal, message, err)
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// Is reports whether err's chain holds an *Error of type t.
func Is(err error, t Type) bool {
	ae, ok := As(err)
	return ok && ae.Type == t
}
