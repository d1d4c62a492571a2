// Package errors provides typed application errors that map onto HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes an error for logging and response formatting.
type ErrorType string

const (
	TypeValidation   ErrorType = "validation"   // 400
	TypeUnauthorized ErrorType = "unauthorized" // 401
	TypeNotFound     ErrorType = "not_found"    // 404
	TypeInternal     ErrorType = "internal"     // 500
	TypeExternal     ErrorType = "external"     // 502
	TypeUnavailable  ErrorType = "unavailable"  // 503
)

var statusByType = map[ErrorType]int{
	TypeValidation:   http.StatusBadRequest,
	TypeUnauthorized: http.StatusUnauthorized,
	TypeNotFound:     http.StatusNotFound,
	TypeInternal:     http.StatusInternalServerError,
	TypeExternal:     http.StatusBadGateway,
	TypeUnavailable:  http.StatusServiceUnavailable,
}

// Error is a structured error carrying a type, a client-safe message, an optional cause
// and free-form context fields for logs.
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]any
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// HTTPStatus maps the error type to a status code. Unknown types are 500.
func (e *Error) HTTPStatus() int {
	if status, ok := statusByType[e.Type]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WithField attaches a context field (chainable).
func (e *Error) WithField(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

func newError(t ErrorType, message string, cause error) *Error {
	return &Error{Type: t, Message: message, Cause: cause, Context: make(map[string]any)}
}

func ValidationError(message string) *Error {
	return newError(TypeValidation, message, nil)
}

func UnauthorizedError(message string) *Error {
	return newError(TypeUnauthorized, message, nil)
}

func NotFoundError(message string) *Error {
	return newError(TypeNotFound, message, nil)
}

func InternalError(message string, cause error) *Error {
	return newError(TypeInternal, message, cause)
}

func ExternalError(message string, cause error) *Error {
	return newError(TypeExternal, message, cause)
}

func UnavailableError(message string, cause error) *Error {
	return newError(TypeUnavailable, message, cause)
}

// ErrorResponse is the JSON body sent to clients.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Type    ErrorType      `json:"type"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *Error) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message, Type: e.Type, Context: e.Context}
}

// AsStructuredError returns err as *Error, wrapping plain errors as internal errors.
func AsStructuredError(err error) *Error {
	if err == nil {
		return nil
	}
	var structured *Error
	if errors.As(err, &structured) {
		return structured
	}
	return InternalError("internal server error", err)
}
