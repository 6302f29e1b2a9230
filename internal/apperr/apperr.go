// Package apperr defines the tagged error kind the Design Notes (§9)
// replace the source's exception-based control flow with: every error
// this module surfaces to a caller carries one of the kinds enumerated in
// §7, each with a stable code and an HTTP mapping.
package apperr

import "net/http"

// Kind is one of the §7 error kinds.
type Kind string

const (
	KindValidation            Kind = "ValidationError"
	KindAuth                  Kind = "AuthError"
	KindAccessDenied          Kind = "AccessDenied"
	KindNotFound              Kind = "NotFound"
	KindConflict              Kind = "Conflict"
	KindInsufficientResources Kind = "InsufficientResources"
	KindInsufficientPoints    Kind = "InsufficientActionPoints"
	KindRateLimited           Kind = "RateLimited"
	KindInternal              Kind = "Internal"
)

// httpStatus maps each kind to its HTTP status (§7). Validation maps to
// 400 by default; call sites that need 422 semantics set the Error's
// Status field explicitly.
var httpStatus = map[Kind]int{
	KindValidation:            http.StatusBadRequest,
	KindAuth:                  http.StatusUnauthorized,
	KindAccessDenied:          http.StatusForbidden,
	KindNotFound:              http.StatusNotFound,
	KindConflict:              http.StatusConflict,
	KindInsufficientResources: http.StatusConflict,
	KindInsufficientPoints:    http.StatusTooManyRequests,
	KindRateLimited:           http.StatusTooManyRequests,
	KindInternal:              http.StatusInternalServerError,
}

// Error is the tagged error every domain/gateway boundary returns instead
// of an ad-hoc error string.
type Error struct {
	Kind          Kind
	Message       string
	CorrelationID string // only populated for KindInternal (§7)
	Status        int    // overrides the default mapping when non-zero

	// Payload carries kind-specific structured detail, e.g.
	// {required, available} for InsufficientResources/InsufficientActionPoints.
	Payload map[string]any
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// HTTPStatus returns e's mapped HTTP status code.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	if s, ok := httpStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New builds a tagged Error of kind with message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WithPayload attaches structured detail (e.g. required/available) to e.
func (e *Error) WithPayload(payload map[string]any) *Error {
	e.Payload = payload
	return e
}

// Validation, NotFound, Conflict, and InsufficientResources are
// convenience constructors for the kinds domain packages raise most often.
func Validation(message string) *Error { return New(KindValidation, message) }
func NotFound(message string) *Error   { return New(KindNotFound, message) }
func Conflict(message string) *Error   { return New(KindConflict, message) }

func InsufficientResources(required, available int64) *Error {
	return New(KindInsufficientResources, "empire lacks required resources").
		WithPayload(map[string]any{"required": required, "available": available})
}

func InsufficientActionPoints(required, available int) *Error {
	return New(KindInsufficientPoints, "ledger rejected reservation").
		WithPayload(map[string]any{"required": required, "available": available})
}

// Internal wraps an unexpected error with a correlation id (§7: "Internal
// ... Includes a correlation id in the response; stack only in
// development builds").
func Internal(correlationID string, cause error) *Error {
	msg := "internal error"
	if cause != nil {
		msg = cause.Error()
	}
	return &Error{Kind: KindInternal, Message: msg, CorrelationID: correlationID}
}
