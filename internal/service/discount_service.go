package service

import (
	"context"
	"fmt"
	"sync"

	"bank-offers/internal/discount"
	"bank-offers/internal/model"
	"bank-offers/internal/repository"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// summaryInstruments are reported by Summary, in this order.
var summaryInstruments = []model.Instrument{
	model.Known(model.InstrumentCredit),
	model.Known(model.InstrumentDebit),
	model.Known(model.InstrumentEMI),
	model.Known(model.InstrumentNetBanking),
}

const (
	summaryNoOffers = "No offers"
	summaryFailed   = "Error calculating"
)

// discountService implements DiscountService.
type discountService struct {
	offerRepo repository.OfferRepository
	engine    *discount.Engine
	logger    zerolog.Logger
}

// NewDiscountService creates a new discount service.
func NewDiscountService(
	offerRepo repository.OfferRepository,
	engine *discount.Engine,
	logger zerolog.Logger,
) DiscountService {
	return &discountService{
		offerRepo: offerRepo,
		engine:    engine,
		logger:    logger.With().Str("service", "discount").Logger(),
	}
}

// HighestDiscount returns the best offer for the requested instrument.
func (s *discountService) HighestDiscount(ctx context.Context, params DiscountParams) (*model.DiscountResult, error) {
	if err := validateParams(params); err != nil {
		s.logger.Debug().Err(err).Msg("invalid discount parameters")
		return nil, err
	}

	inst, _ := model.ParseInstrument(params.PaymentInstrument)
	req := model.RequestContext{
		AmountToPay:       params.AmountToPay,
		BankName:          normaliseBankName(params.BankName),
		PaymentInstrument: inst,
	}

	result, err := s.best(ctx, req)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bank_name", req.BankName).
			Str("payment_instrument", inst.Token()).
			Msg("failed to calculate highest discount")
		return nil, err
	}

	s.logger.Info().
		Str("bank_name", req.BankName).
		Str("payment_instrument", inst.Token()).
		Str("amount_to_pay", req.AmountToPay.String()).
		Str("highest_discount", result.HighestDiscount.String()).
		Msg("highest discount calculated")

	return &result, nil
}

func (s *discountService) best(ctx context.Context, req model.RequestContext) (model.DiscountResult, error) {
	offers, err := s.offerRepo.FindByCriteria(ctx, model.OfferCriteria{
		BankName:          req.BankName,
		MinAmount:         decimal.NewNullDecimal(req.AmountToPay),
		PaymentInstrument: &req.PaymentInstrument,
	})
	if err != nil {
		return model.DiscountResult{}, fmt.Errorf("failed to find offers: %w", err)
	}

	return s.engine.Best(req, offers), nil
}

// Summary computes the best discount for every summary instrument
// concurrently. An instrument that fails is reported as degraded instead of
// failing the whole summary.
func (s *discountService) Summary(ctx context.Context, params SummaryParams) (*model.SummaryResponse, error) {
	if err := validateParams(params); err != nil {
		s.logger.Debug().Err(err).Msg("invalid summary parameters")
		return nil, err
	}

	bankName := normaliseBankName(params.BankName)

	type summaryResult struct {
		index int
		entry model.SummaryEntry
	}

	resultChan := make(chan summaryResult, len(summaryInstruments))
	var wg sync.WaitGroup

	for i, inst := range summaryInstruments {
		wg.Add(1)
		go func(index int, inst model.Instrument) {
			defer wg.Done()

			entry, err := s.summaryEntry(ctx, model.RequestContext{
				AmountToPay:       params.AmountToPay,
				BankName:          bankName,
				PaymentInstrument: inst,
			})
			if err != nil {
				s.logger.Warn().
					Err(err).
					Str("payment_instrument", inst.Token()).
					Msg("failed to calculate summary entry")
				entry = model.SummaryEntry{
					Discount:    decimal.Zero,
					FinalAmount: params.AmountToPay,
					OfferTitle:  summaryFailed,
				}
			}

			resultChan <- summaryResult{index: index, entry: entry}
		}(i, inst)
	}

	wg.Wait()
	close(resultChan)

	entries := make([]model.InstrumentSummary, len(summaryInstruments))
	for result := range resultChan {
		entries[result.index] = model.InstrumentSummary{
			Instrument: summaryInstruments[result.index],
			Entry:      result.entry,
		}
	}

	return &model.SummaryResponse{
		AmountToPay:    params.AmountToPay,
		BankName:       params.BankName,
		PaymentOptions: model.DiscountSummary{Entries: entries},
	}, nil
}

// summaryEntry runs the discount pipeline for one instrument. Panics are
// reported as errors so that one instrument cannot take down the summary.
func (s *discountService) summaryEntry(ctx context.Context, req model.RequestContext) (entry model.SummaryEntry, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic calculating discount: %v", r)
		}
	}()

	result, err := s.best(ctx, req)
	if err != nil {
		return model.SummaryEntry{}, err
	}

	title := summaryNoOffers
	if result.ApplicableOffer != nil {
		title = result.ApplicableOffer.Title
	}

	return model.SummaryEntry{
		Discount:    result.HighestDiscount,
		FinalAmount: result.FinalAmount,
		OfferTitle:  title,
	}, nil
}
