// Package apperr defines the error taxonomy shared by every service in the
// application. Handlers translate these errors into HTTP responses; services
// and stores return them instead of raw errors wherever the failure has a
// meaning for the caller.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind int

const (
	// KindInternal is the default for unclassified failures.
	KindInternal Kind = iota
	// KindValidation marks malformed or missing input.
	KindValidation
	// KindUnauthenticated marks a missing or invalid token.
	KindUnauthenticated
	// KindForbidden marks a role mismatch or a capability not granted.
	KindForbidden
	// KindConflict marks a business-rule violation (duplicate name,
	// already deleted, has dependents).
	KindConflict
	// KindNotFound marks an unknown or soft-deleted entity.
	KindNotFound
	// KindUpstream marks a failure in an external collaborator (object
	// store, credential authority).
	KindUpstream
)

// Error carries a short title (the "error" field of the response envelope)
// and a human-readable message alongside the kind.
type Error struct {
	Kind    Kind
	Title   string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Title + ": " + e.Message
	}
	return e.Title
}

func (e *Error) Unwrap() error { return e.cause }

// Is reports kind equality so sentinel comparisons like
// errors.Is(err, apperr.New(apperr.KindNotFound, "", "")) are not needed.
// Two *Errors match when their kinds match.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an error of the given kind.
func New(kind Kind, title, message string) *Error {
	return &Error{Kind: kind, Title: title, Message: message}
}

// Wrap builds an error of the given kind around a cause.
func Wrap(kind Kind, title, message string, cause error) *Error {
	return &Error{Kind: kind, Title: title, Message: message, cause: cause}
}

func Validation(title, message string) *Error {
	return New(KindValidation, title, message)
}

func Unauthenticated(title, message string) *Error {
	return New(KindUnauthenticated, title, message)
}

func Forbidden(title, message string) *Error {
	return New(KindForbidden, title, message)
}

func Conflict(title, message string) *Error {
	return New(KindConflict, title, message)
}

func NotFound(title, message string) *Error {
	return New(KindNotFound, title, message)
}

func Upstream(title, message string, cause error) *Error {
	return Wrap(KindUpstream, title, message, cause)
}

// KindOf extracts the kind of err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus maps a kind to the status-code class surfaced by the HTTP layer.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
