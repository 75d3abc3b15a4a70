package errs

import (
	"errors"
	"net/http"
)

// Code is an application error code.
type Code string

const (
	NotFound        Code = "not_found"
	Conflict        Code = "conflict"
	Validation      Code = "validation"
	Upstream        Code = "upstream"
	Unauthenticated Code = "unauthenticated"
	Forbidden       Code = "forbidden"
	Internal        Code = "internal"
)

// Error is a coded application error. Message is safe to show to clients;
// Err carries the underlying cause and stays server-side.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a coded error with message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded error with message and cause.
func Wrap(code Code, message string, cause error) error {
	return &Error{Code: code, Message: message, Err: cause}
}

// CodeOf returns the code of err, or Internal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// ClientMessage returns the client-safe message for err. Uncoded errors
// collapse to a generic message so internals never leak over the API.
func ClientMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "internal error"
}

// HTTPStatus maps an error code to its HTTP response status.
func HTTPStatus(code Code) int {
	switch code {
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case Validation:
		return http.StatusBadRequest
	case Upstream:
		return http.StatusBadGateway
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
