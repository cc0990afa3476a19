package handler

import (
	"context"

	"bank-offers/internal/model"
	"bank-offers/internal/service"

	"github.com/stretchr/testify/mock"
)

// MockOfferService is a mock implementation of OfferService.
type MockOfferService struct {
	mock.Mock
}

func (m *MockOfferService) Ingest(ctx context.Context, raw []byte) (*model.IngestResult, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IngestResult), args.Error(1)
}

func (m *MockOfferService) Available(ctx context.Context, params service.AvailableParams) (*model.OfferPage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OfferPage), args.Error(1)
}

func (m *MockOfferService) Deactivate(ctx context.Context, offerID string) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

func (m *MockOfferService) Update(ctx context.Context, offerID string, update model.OfferUpdate) (*model.Offer, error) {
	args := m.Called(ctx, offerID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Offer), args.Error(1)
}

func (m *MockOfferService) Stats(ctx context.Context) (*model.OfferStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OfferStats), args.Error(1)
}

// MockDiscountService is a mock implementation of DiscountService.
type MockDiscountService struct {
	mock.Mock
}

func (m *MockDiscountService) HighestDiscount(ctx context.Context, params service.DiscountParams) (*model.DiscountResult, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DiscountResult), args.Error(1)
}

func (m *MockDiscountService) Summary(ctx context.Context, params service.SummaryParams) (*model.SummaryResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SummaryResponse), args.Error(1)
}

// MockPinger is a mock implementation of Pinger.
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
