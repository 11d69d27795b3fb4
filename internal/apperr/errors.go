// Package apperr defines the typed domain errors of the platform and their
// mapping to HTTP status codes. Services return *Error values; the HTTP layer
// maps them centrally instead of inspecting error strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error carries a numeric code, a short stable name and a human message.
type Error struct {
	Code    int    `json:"code"`
	Name    string `json:"name"`
	Message string `json:"message"`
	status  int
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Name, e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}

// Unwrap exposes the wrapped cause for errors.Is/As.
func (e *Error) Unwrap() error { return e.cause }

// Is matches errors by name so sentinel comparison works across instances
// carrying different messages.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Name == t.Name
}

// WithCause returns a copy wrapping the underlying error.
func (e *Error) WithCause(cause error) *Error {
	c := *e
	c.cause = cause
	return &c
}

// Withf returns a copy with a formatted message.
func (e *Error) Withf(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

func newErr(code int, name, message string, status int) *Error {
	return &Error{Code: code, Name: name, Message: message, status: status}
}

// Sentinel errors. Compare with errors.Is.
var (
	ErrNotFound      = newErr(40401, "NOT_FOUND", "entity not found", http.StatusNotFound)
	ErrValidation    = newErr(40001, "VALIDATION", "request is not valid", http.StatusBadRequest)
	ErrBadCredential = newErr(40101, "BAD_CREDENTIALS", "invalid credentials", http.StatusUnauthorized)
	ErrUnauthorized  = newErr(40102, "UNAUTHORIZED", "authentication required", http.StatusUnauthorized)
	ErrTokenExpired  = newErr(40103, "TOKEN_EXPIRED", "token is expired", http.StatusUnauthorized)
	ErrInsufficient  = newErr(40301, "INSUFFICIENT_RIGHTS", "membership role does not allow this action", http.StatusForbidden)
	ErrNotParty      = newErr(40501, "NOT_ALLOWED_FOR_ROLE", "action not allowed for this call party", http.StatusMethodNotAllowed)
	ErrBadTransition = newErr(40502, "INVALID_STATE_TRANSITION", "call state does not allow this transition", http.StatusMethodNotAllowed)
	ErrConflict      = newErr(40901, "CONFLICT", "entity already exists", http.StatusConflict)
	ErrForbidden     = newErr(45101, "FORBIDDEN_CONTENT", "content is not accessible", http.StatusUnavailableForLegalReasons)

	ErrSamePerson     = newErr(40002, "PERSONS_ARE_THE_SAME", "sender and receiver are the same person", http.StatusBadRequest)
	ErrNotSameGroup   = newErr(40003, "NOT_IN_SAME_GROUP", "persons do not belong to the same group", http.StatusBadRequest)
	ErrOwnerImmutable = newErr(40302, "OWNER_UNTOUCHABLE", "the group owner cannot be changed or removed", http.StatusForbidden)
)

// NotFound returns a not-found error naming the entity.
func NotFound(entity, id string) *Error {
	return ErrNotFound.Withf("%s %q not found", entity, id)
}

// Validation returns a validation error with a specific message.
func Validation(message string) *Error {
	return ErrValidation.Withf("%s", message)
}

// Conflict returns a conflict error with a specific message.
func Conflict(message string) *Error {
	return ErrConflict.Withf("%s", message)
}

// HTTPStatus returns the status for err, or 500 for unknown errors.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.status
	}
	return http.StatusInternalServerError
}

// From extracts the typed error, or wraps err as an internal one.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Code: 50001, Name: "INTERNAL", Message: "internal error", status: http.StatusInternalServerError, cause: err}
}
