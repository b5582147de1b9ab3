package services

import (
	"errors"
	"fmt"

	"github.com/quantframe/forecast-api-go/internal/models"
)

// ValidationError marks input the caller got wrong. Handlers map it to
// a 400 response with the reason verbatim.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

var (
	// ErrMissingBody is returned when no request payload is present.
	ErrMissingBody = &ValidationError{Reason: "No data provided"}

	// ErrInsufficientHistory is returned when the price series is too
	// short to forecast.
	ErrInsufficientHistory = &ValidationError{
		Reason: fmt.Sprintf("Need at least %d price data points", models.MinHistoryLength),
	}

	// ErrNoRequests is returned when a batch carries no items at all.
	ErrNoRequests = &ValidationError{Reason: "No requests provided"}

	// ErrEmptyBatch is returned when every batch item was dropped by
	// per-item validation.
	ErrEmptyBatch = &ValidationError{
		Reason: fmt.Sprintf("No valid inputs (need at least %d prices each)", models.MinHistoryLength),
	}

	// ErrModelNotReady signals the model runner has no loaded model.
	// Handlers map it to 503.
	ErrModelNotReady = errors.New("Model not loaded")
)

// ForecastingFailure wraps an error raised by the external model call.
// The underlying message is surfaced to the caller unredacted; handlers
// map it to 500.
type ForecastingFailure struct {
	Err error
}

func (e *ForecastingFailure) Error() string {
	return e.Err.Error()
}

func (e *ForecastingFailure) Unwrap() error {
	return e.Err
}
