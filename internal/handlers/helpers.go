package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/anshupriya0510/EchoSkill-project/internal/apperrors"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps an error to its HTTP status and the flat {error: message}
// envelope. Unclassified errors are treated as internal.
func writeError(w http.ResponseWriter, err error) {
	appErr := apperrors.From(err)
	writeJSON(w, appErr.HTTPStatus(), map[string]any{"error": appErr.Message})
}

// writeErrorMessage writes a flat error envelope with an explicit status
func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

// decodeBody decodes a JSON request body into dst, tolerating an empty body
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperrors.Validation("Invalid request body")
	}
	return nil
}
