package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"simple-crud/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	//nolint:errcheck // the client may already be gone
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.ErrorResponse{Error: message})
}

// decodeBody reads a JSON request body into v. An empty body leaves v zeroed.
// On malformed input it writes a 400 and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// WriteError exposes the JSON error body to middleware outside this package.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeError(w, status, message)
}
