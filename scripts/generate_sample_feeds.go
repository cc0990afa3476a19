package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// generateSampleFeeds writes one upstream offer document per supported shape.
// offers.json          top-level "offers" array
// data_offers.json     "data.offers" array, camelCase aliases
// payment_offers.gz    "paymentOffers" array, snake_case aliases, gzipped
// array.json           bare array with a couple of invalid entries
func main() {
	dataDir := "data/offers"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	feeds := map[string]any{
		"offers.json": map[string]any{
			"offers": []map[string]any{
				{"id": "AXIS_CC_10", "title": "10% off on Axis Bank credit cards", "bankName": "AXIS",
					"discountType": "percentage", "discountValue": 10, "minAmount": 1000, "maxDiscount": 1500,
					"paymentInstruments": []string{"CREDIT"}, "validTill": "2030-12-31T23:59:59Z"},
				{"id": "AXIS_FLAT_250", "title": "Flat 250 off", "bankName": "AXIS",
					"discountType": "flat", "discountValue": 250, "minAmount": 2500},
			},
		},
		"data_offers.json": map[string]any{
			"data": map[string]any{
				"offers": []map[string]any{
					{"offerId": "HDFC_DC_5", "name": "5% off with HDFC debit cards", "bank": "hdfc",
						"type": "PERCENT", "discount": "5", "maximum": 750, "instruments": []string{"DEBIT", "DEBIT_CARD"}},
					{"offerId": "HDFC_EMI_NC", "name": "No cost EMI", "bank": "hdfc",
						"type": "flat", "discount": 1200, "minimum": 15000, "instruments": []string{"EMI_OPTIONS"}},
				},
			},
		},
		"payment_offers.gz": map[string]any{
			"paymentOffers": []map[string]any{
				{"offer_id": "ICICI_UPI_CB", "offerTitle": "Cashback on ICICI UPI", "bank_name": "ICICI",
					"type": "cashback", "value": 100, "payment_methods": []string{"UPI"}},
				{"offer_id": "ICICI_NB_2", "offerTitle": "2% off on net banking", "bank_name": "ICICI",
					"value": 2, "payment_methods": []string{"NET_BANKING"}, "active": true},
			},
		},
		"array.json": []map[string]any{
			{"id": "SBI_WALLET_50", "title": "Flat 50 off with SBI wallet", "bankName": "SBI",
				"discountType": "flat", "discountValue": 50, "paymentInstruments": []string{"WALLET"}},
			{"id": "SBI_BROKEN", "title": "Missing value", "bankName": "SBI"},
			{"title": "Missing id", "bankName": "SBI", "discountValue": 10},
		},
	}

	for filename, doc := range feeds {
		filePath := filepath.Join(dataDir, filename)

		if err := createFeedFile(filePath, doc); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s\n", filePath)
	}

	fmt.Println("\nSample offer feeds created successfully!")
	fmt.Println("Ingest them with: offerctl ingest data/offers/*")
}

func createFeedFile(filePath string, doc any) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	var w io.Writer = file
	if strings.HasSuffix(filePath, ".gz") {
		gzipWriter := gzip.NewWriter(file)
		defer gzipWriter.Close()
		w = gzipWriter
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to write feed: %w", err)
	}

	return nil
}
