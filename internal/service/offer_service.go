package service

import (
	"context"
	"fmt"
	"strings"

	"bank-offers/internal/model"
	"bank-offers/internal/offer"
	"bank-offers/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// offerService implements OfferService.
type offerService struct {
	offerRepo  repository.OfferRepository
	normalizer offer.Normalizer
	logger     zerolog.Logger
}

// NewOfferService creates a new offer service.
func NewOfferService(
	offerRepo repository.OfferRepository,
	normalizer offer.Normalizer,
	logger zerolog.Logger,
) OfferService {
	return &offerService{
		offerRepo:  offerRepo,
		normalizer: normalizer,
		logger:     logger.With().Str("service", "offer").Logger(),
	}
}

// Ingest normalises raw and upserts the valid offers it contains.
//
// A document with no recognisable offers yields an empty result. A document
// whose offers are all invalid is rejected with model.ErrNoValidOffers.
func (s *offerService) Ingest(ctx context.Context, raw []byte) (*model.IngestResult, error) {
	normalised, err := s.normalizer.Normalize(raw)
	if err != nil {
		s.logger.Warn().Err(err).Msg("rejected offer document")
		return nil, err
	}

	if normalised.Found == 0 {
		s.logger.Info().Msg("offer document contained no offers")
		return &model.IngestResult{}, nil
	}

	if len(normalised.Offers) == 0 {
		s.logger.Warn().
			Int("found", normalised.Found).
			Msg("offer document contained no valid offers")
		return nil, model.ErrNoValidOffers
	}

	upserted, err := s.offerRepo.BulkUpsert(ctx, normalised.Offers)
	if err != nil {
		s.logger.Error().Err(err).Int("offers", len(normalised.Offers)).Msg("failed to store offers")
		return nil, fmt.Errorf("failed to store offers: %w", err)
	}

	result := &model.IngestResult{
		SavedCount:     upserted.SavedCount,
		UpdatedCount:   upserted.UpdatedCount,
		TotalProcessed: len(normalised.Offers),
	}

	s.logger.Info().
		Str("shape", normalised.Shape).
		Int("found", normalised.Found).
		Int("skipped", normalised.Skipped).
		Int("saved", result.SavedCount).
		Int("updated", result.UpdatedCount).
		Msg("offer document ingested")

	return result, nil
}

// Available returns one page of the active offers of a bank.
func (s *offerService) Available(ctx context.Context, params AvailableParams) (*model.OfferPage, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	criteria := model.OfferCriteria{BankName: normaliseBankName(params.BankName)}
	if params.PaymentInstrument != "" {
		inst, _ := model.ParseInstrument(params.PaymentInstrument)
		criteria.PaymentInstrument = &inst
	}

	offers, err := s.offerRepo.FindByCriteria(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to find offers: %w", err)
	}

	// Pages past the end are empty; the page is bounded before multiplying.
	start := len(offers)
	if pages := (len(offers) + params.Limit - 1) / params.Limit; params.Page <= pages {
		start = (params.Page - 1) * params.Limit
	}
	end := min(start+params.Limit, len(offers))

	return &model.OfferPage{
		Offers:      offers[start:end],
		TotalOffers: len(offers),
		Pagination: model.Pagination{
			Page:    params.Page,
			Limit:   params.Limit,
			HasNext: end < len(offers),
			HasPrev: start > 0,
		},
	}, nil
}

// Deactivate soft-deletes an offer.
func (s *offerService) Deactivate(ctx context.Context, offerID string) error {
	if err := s.offerRepo.Deactivate(ctx, offerID); err != nil {
		return err
	}
	s.logger.Info().Str("offer_id", offerID).Msg("offer deactivated")
	return nil
}

// Update applies a partial update to an offer.
func (s *offerService) Update(ctx context.Context, offerID string, update model.OfferUpdate) (*model.Offer, error) {
	if update.IsEmpty() {
		return nil, model.NewValidationError("No valid fields to update")
	}

	var violations []string
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		violations = append(violations, "Title cannot be empty")
	}
	if update.DiscountValue != nil && !model.RoundMoney(*update.DiscountValue).IsPositive() {
		violations = append(violations, "Discount value must be greater than 0")
	}
	if update.MinAmount != nil && update.MinAmount.IsNegative() {
		violations = append(violations, "Minimum amount cannot be negative")
	}
	if update.MaxDiscount != nil && !model.RoundMoney(*update.MaxDiscount).IsPositive() {
		violations = append(violations, "Maximum discount must be greater than 0")
	}
	for _, amount := range []*decimal.Decimal{update.DiscountValue, update.MinAmount, update.MaxDiscount} {
		if amount != nil && model.ExceedsMoneyRange(*amount) {
			violations = append(violations, "Amounts cannot exceed "+model.MaxStoredAmount.String())
			break
		}
	}
	if len(violations) > 0 {
		return nil, model.NewValidationError(violations...)
	}

	updated, err := s.offerRepo.Update(ctx, offerID, update)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("offer_id", offerID).Msg("offer updated")

	return updated, nil
}

// Stats summarises the active offers per bank.
func (s *offerService) Stats(ctx context.Context) (*model.OfferStats, error) {
	stats, err := s.offerRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute offer stats: %w", err)
	}
	return stats, nil
}
