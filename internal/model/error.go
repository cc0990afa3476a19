package model

import (
	"errors"
	"strings"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Status        string   `json:"status"`
	Error         string   `json:"error,omitempty"`
	Message       string   `json:"message"`
	Errors        []string `json:"errors,omitempty"`
	CorrelationID string   `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON    = "INVALID_JSON"
	ErrCodeValidation     = "VALIDATION_FAILED"
	ErrCodeUpstreamFormat = "UPSTREAM_FORMAT"
	ErrCodeNoValidOffers  = "NO_VALID_OFFERS"
	ErrCodeOfferNotFound  = "OFFER_NOT_FOUND"
	ErrCodeStoreFailure   = "STORE_FAILURE"
	ErrCodeUnauthorised   = "UNAUTHORIZED"
	ErrCodeInternalError  = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUpstreamFormat = NewDomainError(ErrCodeUpstreamFormat, "Invalid offer API response format")
	ErrNoValidOffers  = NewDomainError(ErrCodeNoValidOffers, "No valid offers found in the response")
	ErrOfferNotFound  = NewDomainError(ErrCodeOfferNotFound, "Offer not found")
	ErrStoreFailure   = NewDomainError(ErrCodeStoreFailure, "Offer store operation failed")
)

// ValidationError lists every violation found in a request, not just the first.
type ValidationError struct {
	Violations []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Violations, "; ")
}

// NewValidationError creates a validation error from a list of violations.
func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
