package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bank-offers/internal/model"
	"bank-offers/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func decodeError(t *testing.T, w *httptest.ResponseRecorder) model.ErrorResponse {
	t.Helper()
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestOfferHandler_Ingest(t *testing.T) {
	logger := zerolog.Nop()

	tests := []struct {
		name           string
		body           string
		mockReturn     *model.IngestResult
		mockError      error
		expectService  bool
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "Success",
			body:           `{"flipkartOfferApiResponse": {"offers": [{"id": "A"}]}}`,
			mockReturn:     &model.IngestResult{SavedCount: 1, TotalProcessed: 1},
			expectService:  true,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Invalid JSON",
			body:           `{"flipkartOfferApiResponse": `,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeInvalidJSON,
		},
		{
			name:           "Missing document",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Null document",
			body:           `{"flipkartOfferApiResponse": null}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeValidation,
		},
		{
			name:           "Unknown upstream structure",
			body:           `{"flipkartOfferApiResponse": {"offers": [{"id": "A"}]}}`,
			mockError:      fmt.Errorf("%w: unexpected token", model.ErrUpstreamFormat),
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeUpstreamFormat,
		},
		{
			name:           "No valid offers",
			body:           `{"flipkartOfferApiResponse": {"offers": [{"id": "A"}]}}`,
			mockError:      model.ErrNoValidOffers,
			expectService:  true,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   model.ErrCodeNoValidOffers,
		},
		{
			name:           "Store failure",
			body:           `{"flipkartOfferApiResponse": {"offers": [{"id": "A"}]}}`,
			mockError:      fmt.Errorf("failed to store offers: %w", model.ErrStoreFailure),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeStoreFailure,
		},
		{
			name:           "Unexpected failure",
			body:           `{"flipkartOfferApiResponse": {"offers": [{"id": "A"}]}}`,
			mockError:      fmt.Errorf("normalizer exploded"),
			expectService:  true,
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   model.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOfferService)
			h := NewOfferHandler(mockService, 1<<20, 50, logger)

			if tt.expectService {
				mockService.On("Ingest", mock.Anything, []byte(`{"offers": [{"id": "A"}]}`)).
					Return(tt.mockReturn, tt.mockError)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/v1/offer", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Ingest(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedCode != "" {
				resp := decodeError(t, w)
				assert.Equal(t, "error", resp.Status)
				assert.Equal(t, tt.expectedCode, resp.Error)
			} else {
				assert.JSONEq(t,
					`{"status":"success","data":{"savedCount":1,"updatedCount":0,"totalProcessed":1}}`,
					w.Body.String())
			}

			if tt.expectService {
				mockService.AssertExpectations(t)
			} else {
				mockService.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
			}
		})
	}
}

func TestOfferHandler_Ingest_BodyTooLarge(t *testing.T) {
	mockService := new(MockOfferService)
	h := NewOfferHandler(mockService, 32, 50, zerolog.Nop())

	body := `{"flipkartOfferApiResponse": {"offers": [` + strings.Repeat(`{"id":"A"},`, 20) + `{"id":"B"}]}}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/offer", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Ingest(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, decodeError(t, w).Message, "exceeds 32 bytes")
	mockService.AssertNotCalled(t, "Ingest", mock.Anything, mock.Anything)
}

func TestOfferHandler_Available(t *testing.T) {
	logger := zerolog.Nop()
	page := &model.OfferPage{
		Offers:      []model.Offer{},
		TotalOffers: 0,
		Pagination:  model.Pagination{Page: 1, Limit: 50},
	}

	tests := []struct {
		name           string
		query          string
		expectedParams service.AvailableParams
		mockError      error
		expectedStatus int
	}{
		{
			name:           "Defaults page and limit",
			query:          "?bankName=axis",
			expectedParams: service.AvailableParams{BankName: "axis", Page: 1, Limit: 50},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "Explicit page, limit and instrument",
			query: "?bankName=HDFC&paymentInstrument=UPI&page=3&limit=10",
			expectedParams: service.AvailableParams{
				BankName: "HDFC", PaymentInstrument: "UPI", Page: 3, Limit: 10,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Malformed page is passed on for validation",
			query:          "?bankName=HDFC&page=abc",
			expectedParams: service.AvailableParams{BankName: "HDFC", Page: 0, Limit: 50},
			mockError:      model.NewValidationError("Page must be at least 1"),
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOfferService)
			h := NewOfferHandler(mockService, 1<<20, 50, logger)

			if tt.mockError != nil {
				mockService.On("Available", mock.Anything, tt.expectedParams).Return(nil, tt.mockError)
			} else {
				mockService.On("Available", mock.Anything, tt.expectedParams).Return(page, nil)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/available"+tt.query, nil)
			w := httptest.NewRecorder()

			h.Available(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.mockError != nil {
				resp := decodeError(t, w)
				assert.Equal(t, []string{"Page must be at least 1"}, resp.Errors)
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestOfferHandler_Stats(t *testing.T) {
	mockService := new(MockOfferService)
	h := NewOfferHandler(mockService, 1<<20, 50, zerolog.Nop())

	mockService.On("Stats", mock.Anything).Return(&model.OfferStats{
		TotalOffers: 2,
		BankStats: []model.BankStats{{
			BankName:        "AXIS",
			OfferCount:      2,
			AverageDiscount: decimal.NewFromFloat(7.5),
			MaxDiscount:     decimal.NewFromInt(10),
			MinThreshold:    decimal.NewFromInt(500),
		}},
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/offers/stats", nil)
	w := httptest.NewRecorder()

	h.Stats(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"status":"success","data":{"totalOffers":2,"bankStats":[{"bankName":"AXIS","offerCount":2,"averageDiscount":7.5,"maxDiscount":10,"minThreshold":500}]}}`,
		w.Body.String())
}

func TestOfferHandler_Deactivate(t *testing.T) {
	tests := []struct {
		name           string
		offerID        string
		mockError      error
		expectService  bool
		expectedStatus int
	}{
		{name: "Success", offerID: "AXIS_10", expectService: true, expectedStatus: http.StatusOK},
		{name: "Not found", offerID: "MISSING", mockError: model.ErrOfferNotFound, expectService: true, expectedStatus: http.StatusNotFound},
		{name: "Blank ID", offerID: "  ", expectedStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockOfferService)
			h := NewOfferHandler(mockService, 1<<20, 50, zerolog.Nop())

			if tt.expectService {
				mockService.On("Deactivate", mock.Anything, tt.offerID).Return(tt.mockError)
			}

			req := httptest.NewRequest(http.MethodDelete, "/api/v1/offers/x", nil)
			req.SetPathValue("offerId", tt.offerID)
			w := httptest.NewRecorder()

			h.Deactivate(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.JSONEq(t, `{"status":"success","message":"Offer deleted successfully"}`, w.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestOfferHandler_Update(t *testing.T) {
	title := "Flat 200 off"
	updated := &model.Offer{
		OfferID:            "AXIS_10",
		Title:              title,
		BankName:           "AXIS",
		DiscountType:       model.DiscountFlat,
		DiscountValue:      decimal.NewFromInt(200),
		MinAmount:          decimal.Zero,
		PaymentInstruments: []model.Instrument{},
		IsActive:           true,
	}

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockOfferService)
		h := NewOfferHandler(mockService, 1<<20, 50, zerolog.Nop())

		mockService.On("Update", mock.Anything, "AXIS_10", mock.MatchedBy(func(u model.OfferUpdate) bool {
			return u.Title != nil && *u.Title == title && u.DiscountValue == nil
		})).Return(updated, nil)

		body, err := json.Marshal(map[string]string{"title": title})
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/offers/AXIS_10", bytes.NewReader(body))
		req.SetPathValue("offerId", "AXIS_10")
		w := httptest.NewRecorder()

		h.Update(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Status  string      `json:"status"`
			Message string      `json:"message"`
			Data    model.Offer `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Offer updated successfully", resp.Message)
		assert.Equal(t, title, resp.Data.Title)
		mockService.AssertExpectations(t)
	})

	t.Run("Invalid body", func(t *testing.T) {
		mockService := new(MockOfferService)
		h := NewOfferHandler(mockService, 1<<20, 50, zerolog.Nop())

		req := httptest.NewRequest(http.MethodPut, "/api/v1/offers/AXIS_10", strings.NewReader(`{"title":`))
		req.SetPathValue("offerId", "AXIS_10")
		w := httptest.NewRecorder()

		h.Update(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Empty update", func(t *testing.T) {
		mockService := new(MockOfferService)
		h := NewOfferHandler(mockService, 1<<20, 50, zerolog.Nop())

		mockService.On("Update", mock.Anything, "AXIS_10", model.OfferUpdate{}).
			Return(nil, model.NewValidationError("No valid fields to update"))

		req := httptest.NewRequest(http.MethodPut, "/api/v1/offers/AXIS_10", strings.NewReader(`{}`))
		req.SetPathValue("offerId", "AXIS_10")
		w := httptest.NewRecorder()

		h.Update(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{"No valid fields to update"}, decodeError(t, w).Errors)
	})
}

func TestQueryInt(t *testing.T) {
	assert.Equal(t, 7, queryInt("", 7))
	assert.Equal(t, 3, queryInt("3", 7))
	assert.Equal(t, 0, queryInt("three", 7))
}
