package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypePriceParse represents an unparseable listing price
	ErrorTypePriceParse ErrorType = "price_parse"
	// ErrorTypeUnknownCondition represents condition text outside the known vocabulary
	ErrorTypeUnknownCondition ErrorType = "unknown_condition"
	// ErrorTypeMissingEstimate represents a listing the valuation response omitted
	ErrorTypeMissingEstimate ErrorType = "missing_estimate"
	// ErrorTypeInvalidEstimate represents a malformed valuation estimate
	ErrorTypeInvalidEstimate ErrorType = "invalid_estimate"
	// ErrorTypeDegenerateBaseline represents a zero baseline that cannot be classified against
	ErrorTypeDegenerateBaseline ErrorType = "degenerate_baseline"
	// ErrorTypeValuationUnavailable represents a failed batch valuation call
	ErrorTypeValuationUnavailable ErrorType = "valuation_unavailable"
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents HTML parsing errors
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeNotify represents notification delivery errors
	ErrorTypeNotify ErrorType = "notify"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// GearError represents a pipeline error, optionally scoped to a single listing
type GearError struct {
	Type      ErrorType
	ListingID string
	Message   string
	Err       error
	Time      time.Time
}

// Error implements the error interface
func (e *GearError) Error() string {
	scope := e.ListingID
	if scope == "" {
		scope = "batch"
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, scope, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, scope, e.Message)
}

// Unwrap returns the underlying error
func (e *GearError) Unwrap() error {
	return e.Err
}

// PerListing returns true if the error drops a single listing rather than the run
func (e *GearError) PerListing() bool {
	switch e.Type {
	case ErrorTypePriceParse,
		ErrorTypeUnknownCondition,
		ErrorTypeMissingEstimate,
		ErrorTypeInvalidEstimate,
		ErrorTypeDegenerateBaseline:
		return true
	}
	return false
}

// New creates a new GearError
func New(errType ErrorType, listingID, message string, err error) *GearError {
	return &GearError{
		Type:      errType,
		ListingID: listingID,
		Message:   message,
		Err:       err,
		Time:      time.Now(),
	}
}

// NewPriceParse creates a new price parse error
func NewPriceParse(listingID, message string) *GearError {
	return New(ErrorTypePriceParse, listingID, message, nil)
}

// NewUnknownCondition creates a new unknown condition error
func NewUnknownCondition(listingID, message string) *GearError {
	return New(ErrorTypeUnknownCondition, listingID, message, nil)
}

// NewMissingEstimate creates a new missing estimate error
func NewMissingEstimate(listingID string) *GearError {
	return New(ErrorTypeMissingEstimate, listingID, "no valuation estimate in batch response", nil)
}

// NewInvalidEstimate creates a new invalid estimate error
func NewInvalidEstimate(listingID, message string) *GearError {
	return New(ErrorTypeInvalidEstimate, listingID, message, nil)
}

// NewDegenerateBaseline creates a new degenerate baseline error
func NewDegenerateBaseline(listingID string) *GearError {
	return New(ErrorTypeDegenerateBaseline, listingID, "zero baseline, listing not classifiable", nil)
}

// NewValuationUnavailable creates a new valuation unavailable error for a whole batch
func NewValuationUnavailable(message string, err error) *GearError {
	return New(ErrorTypeValuationUnavailable, "", message, err)
}

// NewNetwork creates a new network error
func NewNetwork(message string, err error) *GearError {
	return New(ErrorTypeNetwork, "", message, err)
}

// NewParsing creates a new parsing error
func NewParsing(message string, err error) *GearError {
	return New(ErrorTypeParsing, "", message, err)
}

// NewNotify creates a new notification error
func NewNotify(message string, err error) *GearError {
	return New(ErrorTypeNotify, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *GearError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the ErrorType of err, or "" if err is not a GearError
func TypeOf(err error) ErrorType {
	var ge *GearError
	if errors.As(err, &ge) {
		return ge.Type
	}
	return ""
}

// IsType reports whether err is a GearError of the given type
func IsType(err error, errType ErrorType) bool {
	return TypeOf(err) == errType
}
