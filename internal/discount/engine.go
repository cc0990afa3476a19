package discount

import (
	"time"

	"bank-offers/internal/model"

	"github.com/rs/zerolog"
)

// Engine runs eligibility, pricing and selection over a candidate set.
type Engine struct {
	selector *Selector
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the clock used for validity windows.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new discount engine.
func NewEngine(logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		selector: NewSelector(NewCalculator(logger)),
		now:      time.Now,
		logger:   logger.With().Str("component", "discount-engine").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Best prices the eligible candidates for req and picks the best.
func (e *Engine) Best(req model.RequestContext, candidates []model.Offer) model.DiscountResult {
	eligible := Filter(candidates, req, e.now())

	e.logger.Debug().
		Str("bank_name", req.BankName).
		Str("payment_instrument", req.PaymentInstrument.Token()).
		Int("candidates", len(candidates)).
		Int("eligible", len(eligible)).
		Msg("offers filtered")

	return e.selector.Select(eligible, req.AmountToPay)
}
