package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"bank-offers/internal/discount"
	"bank-offers/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestDiscountService(repo *MockOfferRepository) DiscountService {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	engine := discount.NewEngine(zerolog.Nop(), discount.WithClock(func() time.Time { return now }))
	return NewDiscountService(repo, engine, zerolog.Nop())
}

func forInstrument(token string) any {
	return mock.MatchedBy(func(c model.OfferCriteria) bool {
		return c.PaymentInstrument != nil && c.PaymentInstrument.Token() == token
	})
}

func TestDiscountService_HighestDiscount(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	capped := sampleOffer("HDFC_10", "HDFC", "10")
	capped.MinAmount = decimal.NewFromInt(1000)
	capped.MaxDiscount = decimal.NewNullDecimal(decimal.NewFromInt(300))

	flat := sampleOffer("HDFC_FLAT", "HDFC", "250")
	flat.DiscountType = model.DiscountFlat

	credit := model.Known(model.InstrumentCredit)
	repo.On("FindByCriteria", ctx, model.OfferCriteria{
		BankName:          "HDFC",
		MinAmount:         decimal.NewNullDecimal(decimal.NewFromInt(5000)),
		PaymentInstrument: &credit,
	}).Return([]model.Offer{capped, flat}, nil)

	result, err := svc.HighestDiscount(ctx, DiscountParams{
		AmountToPay:       decimal.NewFromInt(5000),
		BankName:          " hdfc ",
		PaymentInstrument: "credit",
	})

	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(result.HighestDiscount))
	assert.True(t, decimal.NewFromInt(4700).Equal(result.FinalAmount))
	require.NotNil(t, result.ApplicableOffer)
	assert.Equal(t, "HDFC_10", result.ApplicableOffer.OfferID)
	require.Len(t, result.AlternativeOffers, 1)
	assert.Equal(t, "HDFC_FLAT", result.AlternativeOffers[0].OfferID)
	assert.Equal(t, "Best offer: Offer HDFC_10", result.Message)
	repo.AssertExpectations(t)
}

func TestDiscountService_HighestDiscount_NoOffers(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	repo.On("FindByCriteria", ctx, mock.Anything).Return([]model.Offer{}, nil)

	result, err := svc.HighestDiscount(ctx, DiscountParams{
		AmountToPay:       decimal.NewFromInt(800),
		BankName:          "KOTAK",
		PaymentInstrument: "UPI",
	})

	require.NoError(t, err)
	assert.True(t, result.HighestDiscount.IsZero())
	assert.True(t, decimal.NewFromInt(800).Equal(result.FinalAmount))
	assert.Nil(t, result.ApplicableOffer)
	assert.Equal(t, "No applicable offers found", result.Message)
}

func TestDiscountService_HighestDiscount_ValidationErrors(t *testing.T) {
	tests := []struct {
		name       string
		params     DiscountParams
		violations []string
	}{
		{
			name:   "All violations reported together",
			params: DiscountParams{AmountToPay: decimal.Zero, BankName: "", PaymentInstrument: ""},
			violations: []string{
				"Amount to pay must be greater than 0",
				"Bank name is required",
				"Payment instrument is required",
			},
		},
		{
			name:       "Negative amount",
			params:     DiscountParams{AmountToPay: decimal.NewFromInt(-5), BankName: "HDFC", PaymentInstrument: "UPI"},
			violations: []string{"Amount to pay must be greater than 0"},
		},
		{
			name:       "Blank bank name",
			params:     DiscountParams{AmountToPay: decimal.NewFromInt(10), BankName: "   ", PaymentInstrument: "UPI"},
			violations: []string{"Bank name is required"},
		},
		{
			name:   "Guessable but non-canonical instrument",
			params: DiscountParams{AmountToPay: decimal.NewFromInt(10), BankName: "HDFC", PaymentInstrument: "CREDIT_CARD"},
			violations: []string{
				"Invalid payment instrument. Valid options: CREDIT, DEBIT, EMI_OPTIONS, NET_BANKING, UPI, WALLET",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOfferRepository)
			svc := newTestDiscountService(repo)

			result, err := svc.HighestDiscount(context.Background(), tt.params)

			assert.Nil(t, result)
			verr, ok := model.AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.violations, verr.Violations)
			repo.AssertNotCalled(t, "FindByCriteria", mock.Anything, mock.Anything)
		})
	}
}

func TestDiscountService_HighestDiscount_StoreError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	repo.On("FindByCriteria", ctx, mock.Anything).Return(nil, errors.New("connection refused"))

	result, err := svc.HighestDiscount(ctx, DiscountParams{
		AmountToPay:       decimal.NewFromInt(100),
		BankName:          "HDFC",
		PaymentInstrument: "DEBIT",
	})

	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestDiscountService_Summary(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	creditOffer := sampleOffer("CC_5", "AXIS", "5")
	emiOffer := sampleOffer("EMI_FLAT", "AXIS", "100")
	emiOffer.DiscountType = model.DiscountFlat

	repo.On("FindByCriteria", ctx, forInstrument("CREDIT")).Return([]model.Offer{creditOffer}, nil)
	repo.On("FindByCriteria", ctx, forInstrument("DEBIT")).Return([]model.Offer{}, nil)
	repo.On("FindByCriteria", ctx, forInstrument("EMI_OPTIONS")).Return([]model.Offer{emiOffer}, nil)
	repo.On("FindByCriteria", ctx, forInstrument("NET_BANKING")).Return(nil, errors.New("timeout"))

	summary, err := svc.Summary(ctx, SummaryParams{AmountToPay: decimal.NewFromInt(1000), BankName: "axis"})

	require.NoError(t, err)
	assert.Equal(t, []string{"CREDIT", "DEBIT", "EMI_OPTIONS", "NET_BANKING"}, summary.PaymentOptions.Keys())

	entry, ok := summary.PaymentOptions.Get(model.Known(model.InstrumentCredit))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(50).Equal(entry.Discount))
	assert.Equal(t, "Offer CC_5", entry.OfferTitle)

	entry, ok = summary.PaymentOptions.Get(model.Known(model.InstrumentDebit))
	require.True(t, ok)
	assert.True(t, entry.Discount.IsZero())
	assert.Equal(t, "No offers", entry.OfferTitle)

	entry, ok = summary.PaymentOptions.Get(model.Known(model.InstrumentEMI))
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(900).Equal(entry.FinalAmount))

	entry, ok = summary.PaymentOptions.Get(model.Known(model.InstrumentNetBanking))
	require.True(t, ok)
	assert.True(t, entry.Discount.IsZero())
	assert.True(t, decimal.NewFromInt(1000).Equal(entry.FinalAmount))
	assert.Equal(t, "Error calculating", entry.OfferTitle)
}

func TestDiscountService_Summary_AllLookupsFail(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	repo.On("FindByCriteria", ctx, mock.Anything).Return(nil, errors.New("database down"))

	summary, err := svc.Summary(ctx, SummaryParams{AmountToPay: decimal.NewFromInt(250), BankName: "SBI"})

	require.NoError(t, err)
	require.Len(t, summary.PaymentOptions.Entries, 4)
	for _, e := range summary.PaymentOptions.Entries {
		assert.Equal(t, "Error calculating", e.Entry.OfferTitle)
	}

	data, err := json.Marshal(summary)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"amountToPay": 250,
		"bankName": "SBI",
		"paymentOptions": {
			"CREDIT": {"discount": 0, "finalAmount": 250, "offerTitle": "Error calculating"},
			"DEBIT": {"discount": 0, "finalAmount": 250, "offerTitle": "Error calculating"},
			"EMI_OPTIONS": {"discount": 0, "finalAmount": 250, "offerTitle": "Error calculating"},
			"NET_BANKING": {"discount": 0, "finalAmount": 250, "offerTitle": "Error calculating"}
		}
	}`, string(data))
}

func TestDiscountService_Summary_RecoversPanics(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	repo.On("FindByCriteria", ctx, forInstrument("DEBIT")).Panic("unexpected row shape")
	repo.On("FindByCriteria", ctx, mock.Anything).Return([]model.Offer{}, nil)

	summary, err := svc.Summary(ctx, SummaryParams{AmountToPay: decimal.NewFromInt(10), BankName: "SBI"})

	require.NoError(t, err)
	entry, ok := summary.PaymentOptions.Get(model.Known(model.InstrumentDebit))
	require.True(t, ok)
	assert.Equal(t, "Error calculating", entry.OfferTitle)

	entry, ok = summary.PaymentOptions.Get(model.Known(model.InstrumentCredit))
	require.True(t, ok)
	assert.Equal(t, "No offers", entry.OfferTitle)
}

func TestDiscountService_Summary_ValidationErrors(t *testing.T) {
	repo := new(MockOfferRepository)
	svc := newTestDiscountService(repo)

	_, err := svc.Summary(context.Background(), SummaryParams{})

	verr, ok := model.AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, []string{"Amount to pay must be greater than 0", "Bank name is required"}, verr.Violations)
}
