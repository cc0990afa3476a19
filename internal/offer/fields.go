package offer

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bank-offers/internal/model"

	"github.com/shopspring/decimal"
)

// field identifies a canonical offer field.
type field int

const (
	fieldOfferID field = iota
	fieldTitle
	fieldDescription
	fieldBankName
	fieldDiscountType
	fieldDiscountValue
	fieldMinAmount
	fieldMaxDiscount
	fieldPaymentInstruments
	fieldValidFrom
	fieldValidTill
	fieldIsActive
)

// fieldAliases lists, per canonical field, the upstream keys accepted for it
// in priority order. The first present key wins.
var fieldAliases = [...][]string{
	fieldOfferID:            {"id", "offerId", "offer_id"},
	fieldTitle:              {"title", "name", "offerTitle"},
	fieldDescription:        {"description", "desc", "details"},
	fieldBankName:           {"bankName", "bank", "bank_name"},
	fieldDiscountType:       {"discountType", "type"},
	fieldDiscountValue:      {"discountValue", "discount", "value"},
	fieldMinAmount:          {"minAmount", "minimum", "min_amount"},
	fieldMaxDiscount:        {"maxDiscount", "maximum", "max_discount"},
	fieldPaymentInstruments: {"paymentInstruments", "instruments", "payment_methods"},
	fieldValidFrom:          {"validFrom", "startDate"},
	fieldValidTill:          {"validTill", "endDate", "expiryDate"},
	fieldIsActive:           {"isActive", "active"},
}

// lookup returns the value of the first present alias of f.
func lookup(entry map[string]any, f field) (any, bool) {
	for _, key := range fieldAliases[f] {
		if v, ok := entry[key]; ok && present(v) {
			return v, true
		}
	}
	return nil, false
}

// present treats null and blank strings as absent.
func present(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(t) != ""
	default:
		return true
	}
}

func asString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

var numericPrefix = regexp.MustCompile(`^[-+]?(\d+(\.\d*)?|\.\d+)`)

// asDecimal accepts JSON numbers and numeric strings. Strings are read up to
// the first non-numeric character, so "10%" is 10.
func asDecimal(v any) (decimal.Decimal, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = numericPrefix.FindString(strings.TrimSpace(t))
	default:
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func asBool(v any) (bool, bool) {
	switch t := v.(type) {
	case bool:
		return t, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return b, err == nil
	case json.Number:
		b, err := strconv.ParseBool(t.String())
		return b, err == nil
	default:
		return false, false
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func asTime(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func asSlice(v any) []any {
	arr, _ := v.([]any)
	return arr
}

// ClassifyDiscountType maps a free-form upstream discount type to the
// canonical one. Unknown or empty input falls back to percentage.
func ClassifyDiscountType(raw string) model.DiscountType {
	t := strings.ToLower(raw)
	switch {
	case strings.Contains(t, "percent"), strings.Contains(t, "%"):
		return model.DiscountPercentage
	case strings.Contains(t, "flat"), strings.Contains(t, "fixed"):
		return model.DiscountFlat
	case strings.Contains(t, "cashback"):
		return model.DiscountCashback
	default:
		return model.DiscountPercentage
	}
}

// ClassifyInstrument maps a free-form upstream instrument token onto the
// canonical vocabulary. Unmatched tokens are kept as Other, uppercased.
func ClassifyInstrument(raw string) model.Instrument {
	t := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(t, "CREDIT"):
		return model.Known(model.InstrumentCredit)
	case strings.Contains(t, "DEBIT"):
		return model.Known(model.InstrumentDebit)
	case strings.Contains(t, "EMI"):
		return model.Known(model.InstrumentEMI)
	case strings.Contains(t, "NET"), strings.Contains(t, "BANKING"):
		return model.Known(model.InstrumentNetBanking)
	case strings.Contains(t, "UPI"):
		return model.Known(model.InstrumentUPI)
	case strings.Contains(t, "WALLET"):
		return model.Known(model.InstrumentWallet)
	default:
		return model.Other(t)
	}
}
