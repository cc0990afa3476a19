package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// RequestContext is one "best discount" query.
type RequestContext struct {
	AmountToPay       decimal.Decimal
	BankName          string
	PaymentInstrument Instrument
}

// AppliedOffer describes the winning offer of a discount query.
type AppliedOffer struct {
	OfferID       string              `json:"offerId"`
	Title         string              `json:"title"`
	BankName      string              `json:"bankName"`
	DiscountType  DiscountType        `json:"discountType"`
	DiscountValue decimal.Decimal     `json:"discountValue"`
	MaxDiscount   decimal.NullDecimal `json:"maxDiscount"`
}

// AlternativeOffer is a runner-up offer.
type AlternativeOffer struct {
	OfferID        string          `json:"offerId"`
	Title          string          `json:"title"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalAmount    decimal.Decimal `json:"finalAmount"`
}

// DiscountResult is the answer to a discount query.
type DiscountResult struct {
	HighestDiscount   decimal.Decimal    `json:"highestDiscount"`
	FinalAmount       decimal.Decimal    `json:"finalAmount"`
	ApplicableOffer   *AppliedOffer      `json:"applicableOffer"`
	AlternativeOffers []AlternativeOffer `json:"alternativeOffers"`
	Message           string             `json:"message"`
}

// SummaryEntry is the best discount for a single instrument.
type SummaryEntry struct {
	Discount    decimal.Decimal `json:"discount"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
	OfferTitle  string          `json:"offerTitle"`
}

// InstrumentSummary pairs an instrument with its summary entry.
type InstrumentSummary struct {
	Instrument Instrument
	Entry      SummaryEntry
}

// DiscountSummary maps instruments to their best discount, keeping the
// insertion order when encoded.
type DiscountSummary struct {
	Entries []InstrumentSummary
}

// Get returns the entry for an instrument.
func (s DiscountSummary) Get(inst Instrument) (SummaryEntry, bool) {
	for _, e := range s.Entries {
		if e.Instrument.Matches(inst) {
			return e.Entry, true
		}
	}
	return SummaryEntry{}, false
}

// Keys returns the instrument tokens in order.
func (s DiscountSummary) Keys() []string {
	keys := make([]string, len(s.Entries))
	for i, e := range s.Entries {
		keys[i] = e.Instrument.Token()
	}
	return keys
}

// MarshalJSON encodes the summary as an object with ordered keys.
func (s DiscountSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range s.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Instrument.Token())
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Entry)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// SummaryResponse is the payload of GET /api/v1/discount-summary.
type SummaryResponse struct {
	AmountToPay    decimal.Decimal `json:"amountToPay"`
	BankName       string          `json:"bankName"`
	PaymentOptions DiscountSummary `json:"paymentOptions"`
}
