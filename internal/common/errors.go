package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Match with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrRateLimited     = errors.New("rate limited")
)

// Error carries a user-displayable message and unwraps to its kind.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

func newError(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

func Invalid(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func Unauthenticated(format string, args ...any) error {
	return newError(ErrUnauthenticated, format, args...)
}

// HTTPStatus maps an error to its response code and the message safe to show.
// Unknown errors collapse to a generic 500.
func HTTPStatus(err error) (int, string) {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, "Internal server error"
	}
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, e.msg
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, e.msg
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest, e.msg
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, e.msg
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests, e.msg
	}
	return http.StatusInternalServerError, "Internal server error"
}
