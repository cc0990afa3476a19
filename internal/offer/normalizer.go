package offer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"bank-offers/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// shapeExtractor locates the offer array of one known document shape.
type shapeExtractor struct {
	name    string
	extract func(doc any) []any
}

// shapeExtractors are tried in order; the first non-empty result wins.
var shapeExtractors = []shapeExtractor{
	{name: "offers", extract: func(doc any) []any { return arrayAt(doc, "offers") }},
	{name: "data.offers", extract: func(doc any) []any { return arrayAt(doc, "data", "offers") }},
	{name: "paymentOffers", extract: func(doc any) []any { return arrayAt(doc, "paymentOffers") }},
	{name: "array", extract: func(doc any) []any { return asSlice(doc) }},
}

// arrayAt follows path through nested objects and returns the array found there.
func arrayAt(doc any, path ...string) []any {
	cur := doc
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return asSlice(cur)
}

// normalizer implements Normalizer.
type normalizer struct {
	logger zerolog.Logger
}

// NewNormalizer creates a new offer normalizer.
func NewNormalizer(logger zerolog.Logger) Normalizer {
	return &normalizer{
		logger: logger.With().Str("component", "offer-normalizer").Logger(),
	}
}

// Normalize decodes raw and returns the valid canonical offers it holds.
func (n *normalizer) Normalize(raw []byte) (*Result, error) {
	doc, err := decodeDocument(raw)
	if err != nil {
		n.logger.Error().Err(err).Int("bytes", len(raw)).Msg("failed to decode offer document")
		return nil, fmt.Errorf("%w: %v", model.ErrUpstreamFormat, err)
	}

	shape, entries := extractEntries(doc)
	result := &Result{
		Offers: make([]model.Offer, 0, len(entries)),
		Found:  len(entries),
		Shape:  shape,
	}

	if shape == "" {
		n.logger.Warn().Msg("unknown offer document structure, no offers extracted")
		return result, nil
	}

	for i, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			n.logger.Warn().Int("index", i).Msg("offer entry is not an object, skipping")
			result.Skipped++
			continue
		}

		o := n.normalizeEntry(i, obj)
		if reason := validateOffer(o); reason != "" {
			n.logger.Warn().
				Int("index", i).
				Str("offer_id", o.OfferID).
				Str("reason", reason).
				Msg("invalid offer entry, skipping")
			result.Skipped++
			continue
		}

		result.Offers = append(result.Offers, o)
	}

	n.logger.Debug().
		Str("shape", shape).
		Int("found", result.Found).
		Int("valid", len(result.Offers)).
		Int("skipped", result.Skipped).
		Msg("offer document normalised")

	return result, nil
}

// decodeDocument decodes exactly one JSON object or array.
func decodeDocument(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after document")
	}

	switch doc.(type) {
	case map[string]any, []any:
		return doc, nil
	default:
		return nil, errors.New("document is neither an object nor an array")
	}
}

func extractEntries(doc any) (string, []any) {
	for _, ex := range shapeExtractors {
		if entries := ex.extract(doc); len(entries) > 0 {
			return ex.name, entries
		}
	}
	return "", nil
}

// normalizeEntry maps one upstream entry onto the canonical schema. It never
// fails; missing required fields are caught by validateOffer.
func (n *normalizer) normalizeEntry(index int, entry map[string]any) model.Offer {
	o := model.Offer{
		DiscountType: model.DiscountPercentage,
		MinAmount:    decimal.Zero,
		IsActive:     true,
	}

	if v, ok := lookup(entry, fieldOfferID); ok {
		o.OfferID, _ = asString(v)
	}
	if v, ok := lookup(entry, fieldTitle); ok {
		o.Title, _ = asString(v)
	}
	if v, ok := lookup(entry, fieldDescription); ok {
		if s, ok := asString(v); ok {
			o.Description = &s
		}
	}
	if v, ok := lookup(entry, fieldBankName); ok {
		s, _ := asString(v)
		o.BankName = strings.ToUpper(s)
	}
	if v, ok := lookup(entry, fieldDiscountType); ok {
		s, _ := asString(v)
		o.DiscountType = ClassifyDiscountType(s)
	}
	// Amounts are kept at currency precision so the stored offer equals
	// the normalized one.
	if v, ok := lookup(entry, fieldDiscountValue); ok {
		if d, ok := asDecimal(v); ok {
			o.DiscountValue = model.RoundMoney(d)
		}
	}
	if v, ok := lookup(entry, fieldMinAmount); ok {
		if d, ok := asDecimal(v); ok && model.RoundMoney(d).IsPositive() {
			o.MinAmount = model.RoundMoney(d)
		}
	}
	if v, ok := lookup(entry, fieldMaxDiscount); ok {
		if d, ok := asDecimal(v); ok && model.RoundMoney(d).IsPositive() {
			o.MaxDiscount = decimal.NewNullDecimal(model.RoundMoney(d))
		}
	}

	o.PaymentInstruments = []model.Instrument{}
	if v, ok := lookup(entry, fieldPaymentInstruments); ok {
		seen := make(map[string]struct{})
		for _, raw := range asSlice(v) {
			s, ok := asString(raw)
			if !ok || s == "" {
				continue
			}
			inst := ClassifyInstrument(s)
			if _, dup := seen[inst.Token()]; dup {
				continue
			}
			seen[inst.Token()] = struct{}{}
			o.PaymentInstruments = append(o.PaymentInstruments, inst)
		}
	}

	o.ValidFrom = n.timestamp(index, entry, fieldValidFrom)
	o.ValidTill = n.timestamp(index, entry, fieldValidTill)

	if v, ok := lookup(entry, fieldIsActive); ok {
		if b, ok := asBool(v); ok {
			o.IsActive = b
		}
	}

	return o
}

func (n *normalizer) timestamp(index int, entry map[string]any, f field) *time.Time {
	v, ok := lookup(entry, f)
	if !ok {
		return nil
	}
	t, ok := asTime(v)
	if !ok {
		n.logger.Warn().
			Int("index", index).
			Interface("value", v).
			Msg("unparseable offer timestamp, ignoring")
		return nil
	}
	return &t
}

// validateOffer returns why an offer must be rejected, or "" if it is valid.
func validateOffer(o model.Offer) string {
	switch {
	case o.OfferID == "":
		return "missing offer id"
	case o.Title == "":
		return "missing title"
	case o.BankName == "":
		return "missing bank name"
	case !o.DiscountValue.IsPositive():
		return "missing or invalid discount value"
	case model.ExceedsMoneyRange(o.DiscountValue),
		model.ExceedsMoneyRange(o.MinAmount),
		o.MaxDiscount.Valid && model.ExceedsMoneyRange(o.MaxDiscount.Decimal):
		return "amount out of range"
	default:
		return ""
	}
}
