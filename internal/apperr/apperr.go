// Package apperr defines the closed set of error kinds the payment
// endpoints return to clients. Platform-originated errors are reduced to
// one of these kinds at the point they are caught; raw diagnostic detail
// goes to the server log only.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Unauthenticated Kind = iota
	InvalidArgument
	NotFound
	FailedPrecondition
	Internal
	Unknown
)

// Error carries a kind plus a client-safe message.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Code returns the wire status string for the kind.
func (k Kind) Code() string {
	switch k {
	case Unauthenticated:
		return "UNAUTHENTICATED"
	case InvalidArgument:
		return "INVALID_ARGUMENT"
	case NotFound:
		return "NOT_FOUND"
	case FailedPrecondition:
		return "FAILED_PRECONDITION"
	case Internal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated:
		return http.StatusUnauthorized
	case InvalidArgument:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case FailedPrecondition:
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the kind from err, defaulting to Unknown for errors
// that did not pass through this package.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Unknown
}

// Payload is the response body shape for payment endpoints:
// {"error": {"status": "...", "message": "..."}}.
func Payload(err error) map[string]interface{} {
	kind := KindOf(err)
	msg := "an unexpected error occurred"
	var e *Error
	if errors.As(err, &e) {
		msg = e.Message
	}
	return map[string]interface{}{
		"error": map[string]interface{}{
			"status":  kind.Code(),
			"message": msg,
		},
	}
}
