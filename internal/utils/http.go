package utils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// MaxJSONBody caps the request bodies accepted by [DecodeJSONBody].
const MaxJSONBody = 1 << 20

// WriteJSON serializes the given data to JSON and writes it to the HTTP response.
//
// It sets the "Content-Type" header to "application/json" and writes
// the provided HTTP status code before sending the response body.
//
// If marshaling fails, it responds with 500 Internal Server Error
// and returns a wrapped error.
//
// Example usage:
//
//	WriteJSON(w, map[string]any{"ok": true}, http.StatusOK)
//	WriteJSON(w, map[string]any{"ok": false, "error": "INVALID_CREDENTIALS"}, http.StatusUnauthorized)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// DecodeJSONBody decodes a JSON request body into v regardless of the
// declared Content-Type. Portal clients send JSON as text/plain so that the
// request stays a "simple" one for browsers.
func DecodeJSONBody(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, MaxJSONBody))
	if err != nil {
		return fmt.Errorf("error reading request body: %w", err)
	}
	if err = json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("error decoding JSON body: %w", err)
	}
	return nil
}
