package errors

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

const (
	ErrCodeInvalidInput        = "INVALID_INPUT"
	ErrCodeAlreadyExists       = "ALREADY_EXISTS"
	ErrCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeAliasTaken          = "ALIAS_TAKEN"
	ErrCodeAllocationExhausted = "ALLOCATION_EXHAUSTED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    code,
	})
}

// WriteUnauthorized adds the Bearer challenge before the body. Every token
// failure presents the same way regardless of the underlying cause.
func WriteUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	WriteError(w, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}
