package discount

import (
	"errors"

	"bank-offers/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrUnknownDiscountType is returned by Compute for a discount type it
// cannot price. The accompanying discount is zero.
var ErrUnknownDiscountType = errors.New("unknown discount type")

// Compute returns the discount offer grants on amount.
//
// The raw amount is capped at MaxDiscount, then clamped to amount, and only
// then rounded to currency precision.
func Compute(offer model.Offer, amount decimal.Decimal) (decimal.Decimal, error) {
	var raw decimal.Decimal

	switch offer.DiscountType {
	case model.DiscountPercentage:
		raw = amount.Mul(offer.DiscountValue).Shift(-2)
	case model.DiscountFlat:
		raw = offer.DiscountValue
	case model.DiscountCashback:
		raw = decimal.Min(offer.DiscountValue, amount)
	default:
		return decimal.Zero, ErrUnknownDiscountType
	}

	if offer.MaxDiscount.Valid && raw.GreaterThan(offer.MaxDiscount.Decimal) {
		raw = offer.MaxDiscount.Decimal
	}
	if raw.GreaterThan(amount) {
		raw = amount
	}
	if raw.IsNegative() {
		raw = decimal.Zero
	}

	return model.RoundMoney(raw), nil
}

// Calculator prices offers and reports anomalies instead of failing.
type Calculator struct {
	logger zerolog.Logger
}

// NewCalculator creates a new discount calculator.
func NewCalculator(logger zerolog.Logger) *Calculator {
	return &Calculator{
		logger: logger.With().Str("component", "discount-calculator").Logger(),
	}
}

// Discount returns the discount for offer on amount. Unknown discount types
// are logged and priced at zero.
func (c *Calculator) Discount(offer model.Offer, amount decimal.Decimal) decimal.Decimal {
	d, err := Compute(offer, amount)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("offer_id", offer.OfferID).
			Str("discount_type", string(offer.DiscountType)).
			Msg("cannot price offer, treating discount as zero")
		return decimal.Zero
	}
	return d
}
