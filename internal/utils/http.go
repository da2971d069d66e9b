package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// WriteJSON answers statusCode with data encoded as JSON. When data cannot
// be encoded the response is a 500 and the error is returned.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error encoding response", http.StatusInternalServerError)
		return fmt.Errorf("error encoding response: %w", err)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)

	_, err = w.Write(body)
	return err
}

// WriteMessage answers statusCode with msg as the whole plain text body.
// Clients of the list service compare the body verbatim, so no trailing
// newline is written.
func WriteMessage(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	w.Write([]byte(strings.TrimSpace(msg)))
}

// NonNil returns s, or an empty slice when s is nil, so it encodes as [].
func NonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
