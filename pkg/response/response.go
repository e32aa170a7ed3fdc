// Package response writes the JSON envelope every endpoint returns.
// Every body carries a success boolean; errors additionally carry a message.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/shoestop/backend/pkg/apperr"
)

// M is the payload map merged into the envelope.
type M map[string]interface{}

// Pagination is the metadata block attached to paginated listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewPagination computes the derived fields from page/limit/total.
func NewPagination(page, limit int, total int64) Pagination {
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: pages,
		HasNext:    page < pages,
		HasPrev:    page > 1,
	}
}

func write(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func envelope(success bool, m M) map[string]interface{} {
	body := map[string]interface{}{"success": success}
	for k, v := range m {
		body[k] = v
	}
	return body
}

// Success sends a 200 with success=true and the given payload fields.
func Success(w http.ResponseWriter, m M) {
	write(w, http.StatusOK, envelope(true, m))
}

// Created sends a 201 with success=true and the given payload fields.
func Created(w http.ResponseWriter, m M) {
	write(w, http.StatusCreated, envelope(true, m))
}

// Error sends success=false with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope(false, M{"message": message}))
}

// Err maps err through the apperr taxonomy. Unclassified errors become a
// generic 500 so internal detail never leaks to clients.
func Err(w http.ResponseWriter, err error) {
	status := apperr.StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "Internal server error"
	}
	Error(w, status, msg)
}

// ValidationErrors sends a 400 with field-level error map.
func ValidationErrors(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusBadRequest, envelope(false, M{
		"message": "Validation failed",
		"errors":  errs,
	}))
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Error(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Error(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	Error(w, http.StatusNotFound, message)
}
