package server

import (
	"errors"
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	db "github.com/clientpulse/clientpulse/internal/db/gorm"
	"github.com/clientpulse/clientpulse/pkg/models"
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeData wraps the payload in the standard {"data": ...} envelope.
func writeData(w http.ResponseWriter, status int, v interface{}) {
	writeJSON(w, status, map[string]interface{}{"data": v})
}

// writeMessage writes a {"message": ...} error envelope.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// writeFieldErrors writes an {"errors": [{field, message}, ...]} envelope.
func writeFieldErrors(w http.ResponseWriter, status int, errs models.ValidationErrors) {
	writeJSON(w, status, map[string]interface{}{"errors": errs})
}

// writeStoreError maps store sentinel errors to HTTP responses.
// Unmapped errors become a 500 with a generic message; the cause is logged,
// not leaked.
func writeStoreError(w http.ResponseWriter, err error, operation string) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, db.ErrDuplicateEmail):
		writeFieldErrors(w, http.StatusConflict, models.ValidationErrors{
			{Field: "email", Message: "email already in use"},
		})
	default:
		log.Error().Err(err).Str("operation", operation).Msg("Store operation failed")
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON decodes a request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
