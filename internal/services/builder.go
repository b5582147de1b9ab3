package services

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quantframe/forecast-api-go/internal/models"
)

// ResponseBuilder assembles uniformly shaped results with consistent
// two-decimal rounding of prices and percentages. Quantiles are passed
// through raw, not rounded.
type ResponseBuilder struct{}

// Build assembles one PredictionResult.
func (ResponseBuilder) Build(req ValidatedRequest, forecast SymbolForecast, direction models.Direction, percentChange float64, confidence int, modelVersion string, at time.Time) models.PredictionResult {
	lastKnown := req.Prices[len(req.Prices)-1]

	predicted := lastKnown
	if len(forecast.Point) > 0 {
		predicted = forecast.Point[len(forecast.Point)-1]
	}

	rounded := make([]float64, len(forecast.Point))
	for i, f := range forecast.Point {
		rounded[i] = round2(f)
	}

	quantiles := forecast.Quantiles
	if quantiles.Empty() {
		quantiles = nil
	}

	return models.PredictionResult{
		Symbol:          req.Symbol,
		Direction:       direction,
		Confidence:      confidence,
		PredictedChange: round2(percentChange),
		PredictedPrice:  round2(predicted),
		Forecast:        rounded,
		Quantiles:       quantiles,
		Horizon:         req.Horizon,
		ModelVersion:    modelVersion,
		Timestamp:       at,
	}
}

// BuildBatch assembles the batch envelope. Results keep the order in
// which items were accepted by validation.
func (ResponseBuilder) BuildBatch(predictions []models.PredictionResult, modelVersion string, at time.Time) *models.BatchPredictionResponse {
	return &models.BatchPredictionResponse{
		Predictions:  predictions,
		ModelVersion: modelVersion,
		Timestamp:    at,
	}
}

// round2 rounds to two decimal places through decimal arithmetic to
// avoid float drift on price-scale values. Non-finite values round to
// zero; decimal.NewFromFloat panics on them, and a percent change can
// overflow to Inf on a tiny baseline price.
func round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
