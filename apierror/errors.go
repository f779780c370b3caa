// Package apierror defines the error taxonomy shared by middleware and
// handlers, and how each kind maps onto an HTTP response.
package apierror

import (
	"errors"
	"net/http"
	"strings"
)

var (
	ErrAuthenticationMissing = errors.New("authentication credentials missing")
	ErrAuthenticationInvalid = errors.New("authentication credentials invalid")
	ErrAuthorizationDenied   = errors.New("not the owner of this resource")
	ErrNotFound              = errors.New("resource not found")
	ErrBadRequest            = errors.New("bad request")
)

// AccessDenied is the only message clients ever see for 401 and 403.
const AccessDenied = "Access Denied"

// ValidationError carries one user-facing message per failed rule.
type ValidationError struct {
	Messages []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// NewValidationError builds a ValidationError from one or more messages.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

// NotFound wraps ErrNotFound with a user-facing message, e.g. "Course Not Found".
func NotFound(message string) error {
	return &messageError{msg: message, kind: ErrNotFound}
}

// BadRequest wraps ErrBadRequest with a user-facing message.
func BadRequest(message string) error {
	return &messageError{msg: message, kind: ErrBadRequest}
}

type messageError struct {
	msg  string
	kind error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.kind }

// Status maps err onto an HTTP status code and a JSON body.
func Status(err error) (int, any) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, map[string]any{"errors": verr.Messages}
	case errors.Is(err, ErrAuthenticationMissing), errors.Is(err, ErrAuthenticationInvalid):
		return http.StatusUnauthorized, map[string]any{"message": AccessDenied}
	case errors.Is(err, ErrAuthorizationDenied):
		return http.StatusForbidden, map[string]any{"message": AccessDenied}
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, map[string]any{"message": userMessage(err, "Not Found")}
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, map[string]any{"message": userMessage(err, "Bad Request")}
	default:
		return http.StatusInternalServerError, map[string]any{"message": "Internal Server Error"}
	}
}

func userMessage(err error, fallback string) string {
	var merr *messageError
	if errors.As(err, &merr) {
		return merr.msg
	}
	return fallback
}
