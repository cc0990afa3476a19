package discount

import (
	"sort"

	"bank-offers/internal/model"

	"github.com/shopspring/decimal"
)

// maxAlternatives is how many runners-up a result carries.
const maxAlternatives = 2

// NoOffersMessage is the message of a result without an applicable offer.
const NoOffersMessage = "No applicable offers found"

// Selector ranks eligible offers by the discount they grant.
type Selector struct {
	calculator *Calculator
}

// NewSelector creates a selector pricing offers with calculator.
func NewSelector(calculator *Calculator) *Selector {
	return &Selector{calculator: calculator}
}

type rankedOffer struct {
	index    int
	offer    model.Offer
	discount decimal.Decimal
}

// Select picks the best of offers for amount, plus up to two alternatives.
// Equal discounts keep their input order.
func (s *Selector) Select(offers []model.Offer, amount decimal.Decimal) model.DiscountResult {
	if len(offers) == 0 {
		return model.DiscountResult{
			HighestDiscount:   decimal.Zero,
			FinalAmount:       amount,
			AlternativeOffers: []model.AlternativeOffer{},
			Message:           NoOffersMessage,
		}
	}

	ranked := make([]rankedOffer, len(offers))
	for i, o := range offers {
		ranked[i] = rankedOffer{index: i, offer: o, discount: s.calculator.Discount(o, amount)}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if !a.discount.Equal(b.discount) {
			return a.discount.GreaterThan(b.discount)
		}
		return a.index < b.index
	})

	best := ranked[0]
	result := model.DiscountResult{
		HighestDiscount: best.discount,
		FinalAmount:     amount.Sub(best.discount),
		ApplicableOffer: &model.AppliedOffer{
			OfferID:       best.offer.OfferID,
			Title:         best.offer.Title,
			BankName:      best.offer.BankName,
			DiscountType:  best.offer.DiscountType,
			DiscountValue: best.offer.DiscountValue,
			MaxDiscount:   best.offer.MaxDiscount,
		},
		AlternativeOffers: make([]model.AlternativeOffer, 0, maxAlternatives),
		Message:           "Best offer: " + best.offer.Title,
	}

	for _, alt := range ranked[1:min(len(ranked), maxAlternatives+1)] {
		result.AlternativeOffers = append(result.AlternativeOffers, model.AlternativeOffer{
			OfferID:        alt.offer.OfferID,
			Title:          alt.offer.Title,
			DiscountAmount: alt.discount,
			FinalAmount:    amount.Sub(alt.discount),
		})
	}

	return result
}
