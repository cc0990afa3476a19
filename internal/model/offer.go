package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Monetary values travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CurrencyPlaces is the precision offer amounts are stored with.
const CurrencyPlaces = 2

// MaxStoredAmount is the largest amount the offer store can hold.
var MaxStoredAmount = decimal.RequireFromString("9999999999.99")

// RoundMoney rounds d to currency precision.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}

// ExceedsMoneyRange reports whether d, once rounded, does not fit the store.
func ExceedsMoneyRange(d decimal.Decimal) bool {
	return RoundMoney(d).Abs().GreaterThan(MaxStoredAmount)
}

// DiscountType is the pricing rule class of an offer.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFlat       DiscountType = "flat"
	DiscountCashback   DiscountType = "cashback"
)

// Offer is a canonical bank offer as persisted by the offer store.
type Offer struct {
	OfferID            string              `json:"offerId" db:"offer_id"`
	Title              string              `json:"title" db:"title"`
	Description        *string             `json:"description,omitempty" db:"description"`
	BankName           string              `json:"bankName" db:"bank_name"`
	DiscountType       DiscountType        `json:"discountType" db:"discount_type"`
	DiscountValue      decimal.Decimal     `json:"discountValue" db:"discount_value"`
	MinAmount          decimal.Decimal     `json:"minAmount" db:"min_amount"`
	MaxDiscount        decimal.NullDecimal `json:"maxDiscount" db:"max_discount"`
	PaymentInstruments []Instrument        `json:"paymentInstruments" db:"payment_instruments"`
	ValidFrom          *time.Time          `json:"validFrom,omitempty" db:"valid_from"`
	ValidTill          *time.Time          `json:"validTill,omitempty" db:"valid_till"`
	IsActive           bool                `json:"isActive" db:"is_active"`
	CreatedAt          time.Time           `json:"createdAt,omitzero" db:"created_at"`
	UpdatedAt          time.Time           `json:"updatedAt,omitzero" db:"updated_at"`
}

// OfferCriteria narrows an offer store lookup. Zero values mean "any".
type OfferCriteria struct {
	BankName          string
	MinAmount         decimal.NullDecimal
	PaymentInstrument *Instrument
}

// OfferUpdate carries the fields an operator may change on an existing offer.
// Nil fields are left untouched.
type OfferUpdate struct {
	Title         *string          `json:"title,omitempty"`
	Description   *string          `json:"description,omitempty"`
	DiscountValue *decimal.Decimal `json:"discountValue,omitempty"`
	MinAmount     *decimal.Decimal `json:"minAmount,omitempty"`
	MaxDiscount   *decimal.Decimal `json:"maxDiscount,omitempty"`
	ValidTill     *time.Time       `json:"validTill,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u OfferUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DiscountValue == nil &&
		u.MinAmount == nil && u.MaxDiscount == nil && u.ValidTill == nil && u.IsActive == nil
}

// UpsertResult reports how a bulk upsert touched the store.
type UpsertResult struct {
	SavedCount   int `json:"savedCount"`
	UpdatedCount int `json:"updatedCount"`
}

// IngestResult is returned for one ingested upstream document.
type IngestResult struct {
	SavedCount     int `json:"savedCount"`
	UpdatedCount   int `json:"updatedCount"`
	TotalProcessed int `json:"totalProcessed"`
}

// IngestRequest is the request payload for POST /api/v1/offer. The wrapped
// document is kept raw; its shape is only known to the normalizer.
type IngestRequest struct {
	RawResponse json.RawMessage `json:"flipkartOfferApiResponse"`
}

// BankStats aggregates the active offers of one bank.
type BankStats struct {
	BankName        string          `json:"bankName"`
	OfferCount      int             `json:"offerCount"`
	AverageDiscount decimal.Decimal `json:"averageDiscount"`
	MaxDiscount     decimal.Decimal `json:"maxDiscount"`
	MinThreshold    decimal.Decimal `json:"minThreshold"`
}

// OfferStats summarises the active offer catalogue.
type OfferStats struct {
	TotalOffers int         `json:"totalOffers"`
	BankStats   []BankStats `json:"bankStats"`
}

// OfferPage is one page of available offers.
type OfferPage struct {
	Offers      []Offer    `json:"offers"`
	TotalOffers int        `json:"totalOffers"`
	Pagination  Pagination `json:"pagination"`
}

// Pagination describes the position of a page within a result set.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}
