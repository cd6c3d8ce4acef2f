package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and
// message. The response code is derived from the status so client
// mistakes are never labelled as server faults.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: errorCode(status), Message: message})
}

// errorCode maps an HTTP status onto a stable error code.
func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return model.ErrCodeBadRequest
	case http.StatusUnauthorized:
		return model.ErrCodeUnauthorised
	case http.StatusForbidden:
		return model.ErrCodeForbidden
	case http.StatusNotFound:
		return model.ErrCodeNotFound
	case http.StatusMethodNotAllowed:
		return model.ErrCodeMethodNotAllowed
	default:
		return model.ErrCodeInternalError
	}
}

// writeDomainError maps a service error onto an HTTP status. Unknown
// errors become opaque 500s.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var derr *model.DomainError
	if !errors.As(err, &derr) {
		writeError(w, http.StatusInternalServerError, "internal error", logger)
		return
	}

	status := http.StatusBadRequest
	switch derr.Code {
	case model.ErrCodeForbidden:
		status = http.StatusForbidden
	case model.ErrCodeNotFound:
		status = http.StatusNotFound
	case model.ErrCodeInvalidTransition, model.ErrCodeEmailTaken, model.ErrCodeDuplicateReview:
		status = http.StatusConflict
	case model.ErrCodeInvalidCredentials, model.ErrCodeUnauthorised:
		status = http.StatusUnauthorized
	}

	logger.Debug().Str("code", derr.Code).Int("status", status).Msg("domain error")
	writeJSON(w, status, model.ErrorResponse{Error: derr.Code, Message: derr.Message})
}
