package errors

import (
	"errors"
	"net/http"
)

// Kinds of failures the handler layer knows how to report.
// An ErrorWithStatusCode wraps exactly one of them, so callers can use errors.Is.
var (
	ErrBadRequest      = errors.New("bad request")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrNoContent       = errors.New("no content")
)

// default error is internal service error at handler level
// if error has different status code use ErrorWithStatusCode
type ErrorWithStatusCode struct {
	Message    string
	StatusCode int
	Kind       error
}

func (e *ErrorWithStatusCode) Error() string {
	return e.Message
}

func (e *ErrorWithStatusCode) Unwrap() error {
	return e.Kind
}

func BadRequest(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusBadRequest, Kind: ErrBadRequest}
}

func Unauthenticated(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized, Kind: ErrUnauthenticated}
}

// Forbidden is reported on the wire as 401 like every other ownership failure.
func Forbidden(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusUnauthorized, Kind: ErrForbidden}
}

func NotFound(msg string) error {
	return &ErrorWithStatusCode{Message: msg, StatusCode: http.StatusNotFound, Kind: ErrNotFound}
}

// NoContent marks an empty list result. Handlers answer it with a bare 204.
func NoContent() error {
	return &ErrorWithStatusCode{Message: "", StatusCode: http.StatusNoContent, Kind: ErrNoContent}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsNoContent(err error) bool {
	return errors.Is(err, ErrNoContent)
}
