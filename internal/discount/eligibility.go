package discount

import (
	"time"

	"bank-offers/internal/model"
)

// Eligible reports whether offer can be applied to req at the instant now.
// Store-side filtering is only a hint; this is the authoritative check.
func Eligible(offer model.Offer, req model.RequestContext, now time.Time) bool {
	if !offer.IsActive {
		return false
	}
	if offer.MinAmount.GreaterThan(req.AmountToPay) {
		return false
	}
	if offer.ValidFrom != nil && offer.ValidFrom.After(now) {
		return false
	}
	if offer.ValidTill != nil && offer.ValidTill.Before(now) {
		return false
	}
	return acceptsInstrument(offer, req.PaymentInstrument)
}

// acceptsInstrument is true for unrestricted offers and offers listing inst.
func acceptsInstrument(offer model.Offer, inst model.Instrument) bool {
	if len(offer.PaymentInstruments) == 0 {
		return true
	}
	for _, allowed := range offer.PaymentInstruments {
		if allowed.Matches(inst) {
			return true
		}
	}
	return false
}

// Filter returns the eligible offers in their input order.
func Filter(offers []model.Offer, req model.RequestContext, now time.Time) []model.Offer {
	eligible := make([]model.Offer, 0, len(offers))
	for _, o := range offers {
		if Eligible(o, req, now) {
			eligible = append(eligible, o)
		}
	}
	return eligible
}
