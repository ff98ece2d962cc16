package services

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"github.com/reto140/reto140-api/db"
	"github.com/reto140/reto140-api/internal/appconfig"
	"github.com/reto140/reto140-api/models"
)

var validate = validator.New()

// WriteResponse writes a JSON response with a specific status code.
func WriteResponse(w http.ResponseWriter, statusCode int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")

	// We don't want to cache API responses so the client receives most current data
	w.Header().Set("Cache-Control", "max-age=0")

	w.WriteHeader(statusCode)

	if response != nil {
		if err := json.NewEncoder(w).Encode(response); err != nil {
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
			return
		}
	}
}

// WriteErrResponse writes the error envelope for a given status and message.
func WriteErrResponse(w http.ResponseWriter, statusCode int, message string, details string) {
	WriteResponse(w, statusCode, models.Response{
		Error:   true,
		Message: message,
		Codigo:  statusCode,
		Details: details,
	})
}

// HandleErrResponse converts store and validation failures into the error
// envelope, mapping each sentinel onto its HTTP status. Unexpected errors are
// logged in full and reported generically; details reach the client only in
// development mode.
func HandleErrResponse(w http.ResponseWriter, r *http.Request, cfg *appconfig.Config, err error) {
	logger := zerolog.Ctx(r.Context())

	var details string
	if cfg != nil && cfg.IsDevelopment() {
		details = err.Error()
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		WriteErrResponse(w, http.StatusBadRequest, "invalid request: "+validationErrs.Error(), "")
		return
	}

	switch {
	case errors.Is(err, db.ErrNoFields):
		WriteErrResponse(w, http.StatusBadRequest, "no fields to update", "")
	case errors.Is(err, db.ErrNotFound):
		WriteErrResponse(w, http.StatusNotFound, "group not found or inactive", "")
	case errors.Is(err, db.ErrNotMember):
		WriteErrResponse(w, http.StatusNotFound, "you are not a member of this group", "")
	case errors.Is(err, db.ErrNoAccess):
		WriteErrResponse(w, http.StatusForbidden, "you do not have access to this group", "")
	case errors.Is(err, db.ErrAlreadyMember):
		WriteErrResponse(w, http.StatusConflict, "you are already a member of this group", "")
	case errors.Is(err, db.ErrGroupFull):
		WriteErrResponse(w, http.StatusConflict, "group has reached its member limit", "")
	default:
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			logger.Error().Err(err).Str("pq_code", string(pqErr.Code)).Msg("database error")
			WriteErrResponse(w, http.StatusInternalServerError, "internal server error", details)
			return
		}
		logger.Error().Err(err).Msg("unhandled service error")
		WriteErrResponse(w, http.StatusInternalServerError, "internal server error", details)
	}
}

// decodeJSON parses the request body into dst, rejecting bodies that are not
// valid JSON.
func decodeJSON(r *http.Request, dst interface{}) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
