package service

import (
	"context"

	"bank-offers/internal/model"
)

// OfferService defines operations for managing the offer catalogue.
type OfferService interface {
	// Ingest normalises one raw upstream document and upserts its offers.
	Ingest(ctx context.Context, raw []byte) (*model.IngestResult, error)

	// Available lists the active offers of a bank, one page at a time.
	Available(ctx context.Context, params AvailableParams) (*model.OfferPage, error)

	// Deactivate soft-deletes an offer.
	Deactivate(ctx context.Context, offerID string) error

	// Update applies a partial update to an offer.
	Update(ctx context.Context, offerID string, update model.OfferUpdate) (*model.Offer, error)

	// Stats summarises the active offers per bank.
	Stats(ctx context.Context) (*model.OfferStats, error)
}

// DiscountService answers discount queries.
type DiscountService interface {
	// HighestDiscount returns the best offer for one payment instrument.
	HighestDiscount(ctx context.Context, params DiscountParams) (*model.DiscountResult, error)

	// Summary returns the best discount for each summary instrument.
	Summary(ctx context.Context, params SummaryParams) (*model.SummaryResponse, error)
}
