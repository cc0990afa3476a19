package router

import (
	"net/http"

	"bank-offers/internal/handler"
	"bank-offers/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	offerHandler *handler.OfferHandler,
	discountHandler *handler.DiscountHandler,
	healthHandler *handler.HealthHandler,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health endpoints (no authentication required)
	mux.HandleFunc("GET /health", healthHandler.Live)
	mux.HandleFunc("GET /health/live", healthHandler.Live)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/detailed", healthHandler.Detailed)

	// Offer catalogue
	mux.HandleFunc("POST /api/v1/offer", offerHandler.Ingest)
	mux.HandleFunc("GET /api/v1/offers/available", offerHandler.Available)
	mux.HandleFunc("GET /api/v1/offers/stats", offerHandler.Stats)
	mux.HandleFunc("PUT /api/v1/offers/{offerId}", offerHandler.Update)
	mux.HandleFunc("DELETE /api/v1/offers/{offerId}", offerHandler.Deactivate)

	// Discount queries
	mux.HandleFunc("GET /api/v1/highest-discount", discountHandler.HighestDiscount)
	mux.HandleFunc("GET /api/v1/discount-summary", discountHandler.Summary)

	// Apply middleware in order: RequestID -> Recovery -> Logging -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID(h)

	return h
}
