package models

import "time"

// Direction is the categorical movement classification of a forecast.
type Direction string

const (
	DirectionUp      Direction = "up"
	DirectionDown    Direction = "down"
	DirectionNeutral Direction = "neutral"
)

// DefaultSymbol is used when a request omits the symbol field.
const DefaultSymbol = "UNKNOWN"

// MinHistoryLength is the minimum number of price points required for a
// prediction.
const MinHistoryLength = 30

// DefaultHorizon is substituted for any horizon outside the supported set.
const DefaultHorizon = 7

// SupportedHorizons lists the forecast horizons the service accepts.
var SupportedHorizons = []int{1, 7, 30}

// PredictionRequest is the raw single-prediction payload.
type PredictionRequest struct {
	Symbol  string    `json:"symbol"`
	Prices  []float64 `json:"prices"`
	Horizon int       `json:"horizon"`
}

// BatchPredictionRequest is the raw batch payload.
type BatchPredictionRequest struct {
	Requests []PredictionRequest `json:"requests"`
}

// PredictionResult is the per-symbol forecast response.
type PredictionResult struct {
	Symbol          string            `json:"symbol"`
	Direction       Direction         `json:"direction"`
	Confidence      int               `json:"confidence"`
	PredictedChange float64           `json:"predicted_change"`
	PredictedPrice  float64           `json:"predicted_price"`
	Forecast        []float64         `json:"forecast"`
	Quantiles       *QuantileForecast `json:"quantiles,omitempty"`
	Horizon         int               `json:"horizon"`
	ModelVersion    string            `json:"model_version"`
	Timestamp       time.Time         `json:"timestamp"`
}

// BatchPredictionResponse carries per-symbol results in accepted input
// order plus the shared model identity and generation time.
type BatchPredictionResponse struct {
	Predictions  []PredictionResult `json:"predictions"`
	ModelVersion string             `json:"model_version"`
	Timestamp    time.Time          `json:"timestamp"`
}

// IsSupportedHorizon reports whether h is one of the accepted horizons.
func IsSupportedHorizon(h int) bool {
	for _, s := range SupportedHorizons {
		if h == s {
			return true
		}
	}
	return false
}

// NormalizeHorizon returns h unchanged when supported, DefaultHorizon
// otherwise.
func NormalizeHorizon(h int) int {
	if IsSupportedHorizon(h) {
		return h
	}
	return DefaultHorizon
}

// IsZero reports whether the request decoded from an empty payload.
func (r *PredictionRequest) IsZero() bool {
	return r.Symbol == "" && len(r.Prices) == 0 && r.Horizon == 0
}
