package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of the transport.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindDependency
)

// AppError is a custom error type that includes an HTTP status code and an optional internal error code.
type AppError struct {
	Kind    Kind   // Error classification used by callers
	Code    int    // HTTP Status Code (e.g., 400, 404)
	Message string // User-facing error message
	Err     error  // The underlying error, if any (not exposed to user)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError with a status code and message.
// The kind is derived from the status code.
func New(code int, message string) *AppError {
	return &AppError{
		Kind:    kindFromCode(code),
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Kind:    kindFromCode(code),
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation creates an error for malformed or semantically invalid input.
func Validation(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound creates an error for a referenced entity that does not exist.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Dependency wraps a failure of an external collaborator (database, cache, lookup).
func Dependency(err error, message string) *AppError {
	return Wrap(err, http.StatusServiceUnavailable, message)
}

// KindOf returns the Kind of the first AppError in err's chain,
// or KindInternal if there is none.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func kindFromCode(code int) Kind {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindValidation
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		return KindDependency
	default:
		return KindInternal
	}
}
