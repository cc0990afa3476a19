package repository

import (
	"context"

	"bank-offers/internal/model"
)

// OfferRepository defines the offer store operations.
type OfferRepository interface {
	// FindByCriteria returns active, currently valid offers matching criteria,
	// ordered by discount value descending. The order is a hint only.
	FindByCriteria(ctx context.Context, criteria model.OfferCriteria) ([]model.Offer, error)

	// BulkUpsert inserts or fully overwrites offers keyed by offer ID in a
	// single transaction. Either every offer is stored or none is.
	BulkUpsert(ctx context.Context, offers []model.Offer) (model.UpsertResult, error)

	// Deactivate soft-deletes an offer. Returns model.ErrOfferNotFound for
	// unknown IDs.
	Deactivate(ctx context.Context, offerID string) error

	// Update applies a partial update and returns the stored offer.
	Update(ctx context.Context, offerID string, update model.OfferUpdate) (*model.Offer, error)

	// Stats aggregates the active offers per bank.
	Stats(ctx context.Context) (*model.OfferStats, error)
}
