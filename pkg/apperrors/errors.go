// Package apperrors defines the storefront's error taxonomy.
//
// Services return these typed errors; controllers map them onto the uniform
// JSON envelope via response.FromError. Anything outside the taxonomy becomes
// a generic 500.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a sentinel-backed application error carrying an HTTP status.
type Error struct {
	Kind    Kind
	Message string
}

// Kind classifies an application error.
type Kind int

const (
	// Validation covers malformed or business-rule-violating input:
	// empty cart, insufficient stock, bad quantity.
	Validation Kind = iota
	// NotFound covers missing products and orders.
	NotFound
	// Authentication means the caller is not authenticated at all.
	Authentication
	// Authorization means the caller is authenticated but not permitted.
	Authorization
)

func (e *Error) Error() string { return e.Message }

// Status maps the error kind to its HTTP status code.
// Authorization maps to 401, matching the order-access contract
// ("not owner or admin" is answered with 401, not 403).
func (e *Error) Status() int {
	switch e.Kind {
	case Validation:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Authentication, Authorization:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Validationf builds a Validation error.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds a NotFound error.
func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Unauthenticated builds an Authentication error.
func Unauthenticated(message string) *Error {
	return &Error{Kind: Authentication, Message: message}
}

// Unauthorized builds an Authorization error.
func Unauthorized(message string) *Error {
	return &Error{Kind: Authorization, Message: message}
}

// As unwraps err into an *Error, following wrapped chains.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err is an application error of the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}
