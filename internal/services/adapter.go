package services

import (
	"context"
	"fmt"

	"github.com/quantframe/forecast-api-go/internal/models"
	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

// ForecastAdapter normalizes single and batch requests into one call
// shape against the model runner. The runner supports a single horizon
// per call across its batch dimension, so a mixed-horizon batch is run
// at the widest horizon and each symbol is trimmed back to its own
// requested prefix afterwards.
type ForecastAdapter struct {
	forecaster timesfm.Forecaster
}

// NewForecastAdapter creates an adapter over the given forecaster.
func NewForecastAdapter(forecaster timesfm.Forecaster) *ForecastAdapter {
	return &ForecastAdapter{forecaster: forecaster}
}

// SymbolForecast is one symbol's slice of the model output, aligned to
// the input index and truncated to that symbol's own horizon.
type SymbolForecast struct {
	Point     []float64
	Quantiles *models.QuantileForecast
}

// Forecast issues exactly one inference call for the accepted requests
// and returns per-symbol outputs in the same order. Model failures are
// wrapped as ForecastingFailure with the underlying message intact; no
// retries, no caching.
func (a *ForecastAdapter) Forecast(ctx context.Context, requests []ValidatedRequest) ([]SymbolForecast, string, error) {
	if len(requests) == 0 {
		return nil, "", fmt.Errorf("no requests to forecast")
	}

	effectiveHorizon := requests[0].Horizon
	inputs := make([][]float64, len(requests))
	for i, r := range requests {
		if r.Horizon > effectiveHorizon {
			effectiveHorizon = r.Horizon
		}
		inputs[i] = r.Prices
	}

	out, err := a.forecaster.Forecast(ctx, effectiveHorizon, inputs)
	if err != nil {
		return nil, "", &ForecastingFailure{Err: err}
	}

	results := make([]SymbolForecast, len(requests))
	for i, r := range requests {
		point := out.PointForecasts[i]
		if len(point) > r.Horizon {
			point = point[:r.Horizon]
		}
		results[i] = SymbolForecast{
			Point:     point,
			Quantiles: out.QuantilesFor(i).Truncate(r.Horizon),
		}
	}

	return results, out.ModelVersion, nil
}
