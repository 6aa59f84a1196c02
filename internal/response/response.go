// Package response provides shared JSON response helpers for HTTP handlers.
//
// Every body carries a top-level "success" flag. Successful responses put
// their payload keys next to it ({"success":true,"files":[...]}); failures
// carry an "error" message.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/filedock/service/internal/errs"
)

// Fields is the payload of a successful response.
type Fields map[string]any

// ErrorBody is the body written for every failed request.
type ErrorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with success=true merged into fields.
func OK(w http.ResponseWriter, fields Fields) {
	JSON(w, http.StatusOK, withSuccess(fields))
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Success: false, Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// RequestTooLarge writes a 413 response.
func RequestTooLarge(w http.ResponseWriter, message string) {
	Error(w, http.StatusRequestEntityTooLarge, message)
}

// InternalError writes a 500 response with the given message.
func InternalError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// FromError maps a storage error onto a status code: not found → 404,
// invalid input → 400, anything else → 500 with fallback as the message.
func FromError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errs.IsNotFound(err):
		NotFound(w, "File not found")
	case errs.IsInvalidInput(err):
		BadRequest(w, "Invalid key")
	default:
		InternalError(w, fallback)
	}
}

func withSuccess(fields Fields) Fields {
	out := make(Fields, len(fields)+1)
	for k, v := range fields {
		out[k] = v
	}
	out["success"] = true
	return out
}
