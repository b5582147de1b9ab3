package services

import (
	"github.com/quantframe/forecast-api-go/internal/models"
)

// InputValidator checks request shape before the model is invoked.
// History length and a present body are hard requirements; an
// unsupported horizon is coerced to the default instead of rejected,
// and a missing symbol falls back to a sentinel. The asymmetry is
// deliberate and observable, so it stays.
type InputValidator struct{}

// ValidatedRequest is a request that passed validation, with the symbol
// defaulted and the horizon normalized.
type ValidatedRequest struct {
	Symbol  string
	Prices  []float64
	Horizon int
}

// ValidateSingle validates one prediction request.
func (InputValidator) ValidateSingle(req *models.PredictionRequest) (*ValidatedRequest, error) {
	if req == nil {
		return nil, ErrMissingBody
	}
	if len(req.Prices) < models.MinHistoryLength {
		return nil, ErrInsufficientHistory
	}

	symbol := req.Symbol
	if symbol == "" {
		symbol = models.DefaultSymbol
	}

	return &ValidatedRequest{
		Symbol:  symbol,
		Prices:  req.Prices,
		Horizon: models.NormalizeHorizon(req.Horizon),
	}, nil
}

// ValidateBatch validates batch items individually. Invalid items are
// dropped silently; accepted items keep their input order. The batch
// fails only when nothing survives.
func (v InputValidator) ValidateBatch(batch *models.BatchPredictionRequest) ([]ValidatedRequest, error) {
	if batch == nil || len(batch.Requests) == 0 {
		return nil, ErrNoRequests
	}

	accepted := make([]ValidatedRequest, 0, len(batch.Requests))
	for i := range batch.Requests {
		vr, err := v.ValidateSingle(&batch.Requests[i])
		if err != nil {
			continue
		}
		accepted = append(accepted, *vr)
	}

	if len(accepted) == 0 {
		return nil, ErrEmptyBatch
	}
	return accepted, nil
}
