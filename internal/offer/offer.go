package offer

import (
	"context"

	"bank-offers/internal/model"
)

// Normalizer turns one raw upstream offer document into canonical offers.
type Normalizer interface {
	// Normalize decodes raw and returns the valid canonical offers it holds,
	// in input order. It returns an error only when raw is not a structured
	// document at all.
	Normalize(raw []byte) (*Result, error)
}

// Result is the outcome of normalizing one document.
type Result struct {
	// Offers are the entries that passed validation.
	Offers []model.Offer

	// Found is the number of entries located in the document.
	Found int

	// Skipped is the number of entries dropped by validation.
	Skipped int

	// Shape names the extractor that located the entries ("" if none did).
	Shape string
}

// Loader fetches raw offer documents.
type Loader interface {
	// Load reads one document. Gzipped documents (".gz") are decompressed.
	Load(ctx context.Context, path string) ([]byte, error)
}
