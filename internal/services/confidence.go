package services

import (
	"math"

	"github.com/quantframe/forecast-api-go/internal/models"
)

// Confidence scoring constants. Quantile-backed estimates are trusted
// slightly further than the magnitude heuristic, hence the higher
// ceiling on the quantile path.
const (
	confidenceFloor   = 40
	confidenceCeiling = 95
	heuristicCeiling  = 90

	spreadBase   = 90.0
	spreadWeight = 50.0

	heuristicBase   = 50.0
	heuristicWeight = 5.0
)

// ConfidenceEstimator derives a bounded integer confidence score from
// the quantile output of the final forecast step. Estimation never
// fails: absent, degenerate, or malformed quantile data degrades to a
// magnitude-based heuristic rather than surfacing an error.
type ConfidenceEstimator struct{}

// Estimate returns an integer confidence in [40, 95]. With usable
// quantiles a narrower relative spread scores higher; without them the
// heuristic treats larger predicted moves as more confident, capped at
// 90. The score is an inverse-spread heuristic, not a calibrated
// probability.
func (e ConfidenceEstimator) Estimate(quantiles *models.QuantileForecast, percentChange float64) int {
	if conf, ok := e.fromQuantiles(quantiles); ok {
		return conf
	}
	return e.fromMagnitude(percentChange)
}

func (ConfidenceEstimator) fromQuantiles(q *models.QuantileForecast) (int, bool) {
	set := q.LastStep()
	if len(set) < 2 {
		return 0, false
	}

	spread := math.Abs(set[len(set)-1] - set[0])

	var sum float64
	for _, v := range set {
		sum += v
	}
	mean := math.Abs(sum / float64(len(set)))

	if mean == 0 || math.IsNaN(mean) || math.IsInf(mean, 0) || math.IsNaN(spread) || math.IsInf(spread, 0) {
		return 0, false
	}

	relativeSpread := spread / mean
	return clampScore(spreadBase-relativeSpread*spreadWeight, confidenceCeiling), true
}

func (ConfidenceEstimator) fromMagnitude(percentChange float64) int {
	if math.IsNaN(percentChange) || math.IsInf(percentChange, 0) {
		percentChange = 0
	}
	return clampScore(heuristicBase+math.Abs(percentChange)*heuristicWeight, heuristicCeiling)
}

// clampScore bounds v to [confidenceFloor, ceiling] and truncates to an
// integer.
func clampScore(v float64, ceiling int) int {
	if v < confidenceFloor {
		return confidenceFloor
	}
	if v > float64(ceiling) {
		return ceiling
	}
	return int(v)
}
