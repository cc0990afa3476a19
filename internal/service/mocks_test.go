package service

import (
	"context"

	"bank-offers/internal/model"
	"bank-offers/internal/offer"

	"github.com/stretchr/testify/mock"
)

// MockOfferRepository is a mock implementation of OfferRepository.
type MockOfferRepository struct {
	mock.Mock
}

func (m *MockOfferRepository) FindByCriteria(ctx context.Context, criteria model.OfferCriteria) ([]model.Offer, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Offer), args.Error(1)
}

func (m *MockOfferRepository) BulkUpsert(ctx context.Context, offers []model.Offer) (model.UpsertResult, error) {
	args := m.Called(ctx, offers)
	return args.Get(0).(model.UpsertResult), args.Error(1)
}

func (m *MockOfferRepository) Deactivate(ctx context.Context, offerID string) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

func (m *MockOfferRepository) Update(ctx context.Context, offerID string, update model.OfferUpdate) (*model.Offer, error) {
	args := m.Called(ctx, offerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferRepository) Stats(ctx context.Context) (*model.OfferStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OfferStats), args.Error(1)
}

// MockNormalizer is a mock implementation of offer.Normalizer.
type MockNormalizer struct {
	mock.Mock
}

func (m *MockNormalizer) Normalize(raw []byte) (*offer.Result, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Result), args.Error(1)
}
