package handler

import (
	"net/http"
	"strings"

	"bank-offers/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DiscountHandler handles discount query HTTP requests.
type DiscountHandler struct {
	service service.DiscountService
	logger  zerolog.Logger
}

// NewDiscountHandler creates a new discount handler.
func NewDiscountHandler(service service.DiscountService, logger zerolog.Logger) *DiscountHandler {
	return &DiscountHandler{
		service: service,
		logger:  logger.With().Str("handler", "discount").Logger(),
	}
}

// HighestDiscount handles GET /api/v1/highest-discount requests.
func (h *DiscountHandler) HighestDiscount(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.service.HighestDiscount(r.Context(), service.DiscountParams{
		AmountToPay:       parseAmount(q.Get("amountToPay")),
		BankName:          q.Get("bankName"),
		PaymentInstrument: q.Get("paymentInstrument"),
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, result)
}

// Summary handles GET /api/v1/discount-summary requests.
func (h *DiscountHandler) Summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	summary, err := h.service.Summary(r.Context(), service.SummaryParams{
		AmountToPay: parseAmount(q.Get("amountToPay")),
		BankName:    q.Get("bankName"),
	})
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}

	writeData(w, http.StatusOK, summary)
}

// parseAmount reads a monetary query value. Anything unparseable is zero,
// which the amount validation then rejects.
func parseAmount(value string) decimal.Decimal {
	amount, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero
	}
	return amount
}
