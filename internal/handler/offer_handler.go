package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"bank-offers/internal/model"
	"bank-offers/internal/service"

	"github.com/rs/zerolog"
)

// OfferHandler handles offer catalogue HTTP requests.
type OfferHandler struct {
	service        service.OfferService
	maxIngestBytes int64
	defaultLimit   int
	logger         zerolog.Logger
}

// NewOfferHandler creates a new offer handler.
func NewOfferHandler(service service.OfferService, maxIngestBytes int64, defaultLimit int, logger zerolog.Logger) *OfferHandler {
	return &OfferHandler{
		service:        service,
		maxIngestBytes: maxIngestBytes,
		defaultLimit:   defaultLimit,
		logger:         logger.With().Str("handler", "offer").Logger(),
	}
}

// Ingest handles POST /api/v1/offer requests.
func (h *OfferHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxIngestBytes)

	var req model.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, model.ErrCodeValidation,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit), nil, h.logger)
			return
		}
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, h.logger)
		return
	}

	raw := bytes.TrimSpace(req.RawResponse)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "Validation failed",
			[]string{"flipkartOfferApiResponse is required"}, h.logger)
		return
	}

	result, err := h.service.Ingest(r.Context(), raw)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusCreated, result)
}

// Available handles GET /api/v1/offers/available requests.
func (h *OfferHandler) Available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := service.AvailableParams{
		BankName:          q.Get("bankName"),
		PaymentInstrument: q.Get("paymentInstrument"),
		Page:              queryInt(q.Get("page"), 1),
		Limit:             queryInt(q.Get("limit"), h.defaultLimit),
	}

	page, err := h.service.Available(r.Context(), params)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, page)
}

// Stats handles GET /api/v1/offers/stats requests.
func (h *OfferHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, stats)
}

// Deactivate handles DELETE /api/v1/offers/{offerId} requests.
func (h *OfferHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	offerID := strings.TrimSpace(r.PathValue("offerId"))
	if offerID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "offer ID is required", nil, h.logger)
		return
	}

	if err := h.service.Deactivate(r.Context(), offerID); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Status: "success", Message: "Offer deleted successfully"})
}

// Update handles PUT /api/v1/offers/{offerId} requests.
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	offerID := strings.TrimSpace(r.PathValue("offerId"))
	if offerID == "" {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeValidation, "offer ID is required", nil, h.logger)
		return
	}

	var update model.OfferUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, r, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", nil, h.logger)
		return
	}

	offer, err := h.service.Update(r.Context(), offerID, update)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{Status: "success", Data: offer, Message: "Offer updated successfully"})
}

// queryInt parses a query value, using def when it is absent.
// Malformed values become 0 so validation rejects them.
func queryInt(value string, def int) int {
	if value == "" {
		return def
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
