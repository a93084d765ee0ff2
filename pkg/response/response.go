// Package response writes the storefront's uniform JSON envelope.
//
// Every API response is wrapped as {"success": bool, "data": ... } on the
// happy path or {"success": false, "error": "..."} on failure. List
// responses additionally carry "count" and a "pagination" object whose
// next/prev descriptors are present only when applicable.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/fashionhub/storefront/pkg/apperrors"
)

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Page    interface{} `json:"pagination,omitempty"`
	Error   string      `json:"error,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 envelope with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created sends a 201 envelope with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// List sends a 200 envelope with data, its length, and pagination metadata.
func List(w http.ResponseWriter, data interface{}, count int, pagination interface{}) {
	write(w, http.StatusOK, envelope{
		Success: true,
		Data:    data,
		Count:   &count,
		Page:    pagination,
	})
}

// Error sends a JSON error envelope.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Success: false, Error: message})
}

// ValidationErrors sends a 400 with a field-level error map.
func ValidationErrors(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		Success: false,
		Error:   "Validation failed",
		Errors:  errs,
	})
}

// FromError maps a service error onto the envelope. Typed application errors
// keep their status and message; anything else becomes a generic 500 so
// internals never leak to clients.
func FromError(w http.ResponseWriter, err error) {
	if appErr, ok := apperrors.As(err); ok {
		Error(w, appErr.Status(), appErr.Message)
		return
	}
	Error(w, http.StatusInternalServerError, "Internal Server Error")
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Not authorized to access this route")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	Error(w, http.StatusNotFound, message)
}

// RouteNotFound is the handler for unknown routes.
func RouteNotFound(w http.ResponseWriter, _ *http.Request) {
	Error(w, http.StatusNotFound, "Route not found")
}
