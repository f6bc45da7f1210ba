// Package handlers implements the HTTP handlers for the service.
package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the uniform error body: { "error": "<displayable text>" }.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
