package utils

import (
	"encoding/json"
	"log"
	"net/http"
)

// Stable error codes surfaced to API clients.
const (
	CodeInvalidRequest  = "invalid_request"
	CodeSessionNotFound = "session_not_found"
	CodeInternalError   = "internal_error"
)

// RespondJSON writes a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError writes a structured error body with a stable code.
func RespondError(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, map[string]string{"error": message, "code": code})
}
