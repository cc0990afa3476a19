package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"bank-offers/internal/middleware"
	"bank-offers/internal/model"

	"github.com/rs/zerolog"
)

// SuccessResponse wraps every successful payload.
type SuccessResponse struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already sent
		return
	}
}

// writeData writes a success envelope around data.
func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, SuccessResponse{Status: "success", Data: data})
}

// writeError writes an error envelope with the given status code and message.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, violations []string, logger zerolog.Logger) {
	correlationID := middleware.RequestIDFromContext(r.Context())

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.
		Str("error", message).
		Str("code", code).
		Int("status", status).
		Str("request_id", correlationID).
		Msg("handler error")

	writeJSON(w, status, model.ErrorResponse{
		Status:        "error",
		Error:         code,
		Message:       message,
		Errors:        violations,
		CorrelationID: correlationID,
	})
}

// writeServiceError maps a service error onto its HTTP status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	if verr, ok := model.AsValidationError(err); ok {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "Validation failed", verr.Violations, logger)
		return
	}

	switch {
	case errors.Is(err, model.ErrUpstreamFormat):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeUpstreamFormat, model.ErrUpstreamFormat.Message, []string{err.Error()}, logger)
	case errors.Is(err, model.ErrNoValidOffers):
		writeError(w, r, http.StatusBadRequest, model.ErrCodeNoValidOffers, model.ErrNoValidOffers.Message, nil, logger)
	case errors.Is(err, model.ErrOfferNotFound):
		writeError(w, r, http.StatusNotFound, model.ErrCodeOfferNotFound, model.ErrOfferNotFound.Message, nil, logger)
	case errors.Is(err, model.ErrStoreFailure):
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("offer store failed")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeStoreFailure, model.ErrStoreFailure.Message, nil, logger)
	default:
		logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, model.ErrCodeInternalError, "Internal server error", nil, logger)
	}
}
