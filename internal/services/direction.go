package services

import (
	"github.com/quantframe/forecast-api-go/internal/models"
)

// directionThreshold is the symmetric percent-change cutoff separating
// up/down from neutral. A policy constant, not per-request config.
const directionThreshold = 1.0

// DirectionClassifier derives percent change and a categorical
// direction from the last observed price and the final forecast value.
type DirectionClassifier struct{}

// Classify returns the direction and percent change of the forecast
// relative to the last known price. An empty forecast predicts no
// movement. A zero baseline yields zero change and neutral, since a
// relative change is undefined there.
func (DirectionClassifier) Classify(lastKnown float64, forecast []float64) (models.Direction, float64) {
	predicted := lastKnown
	if len(forecast) > 0 {
		predicted = forecast[len(forecast)-1]
	}

	if lastKnown == 0 {
		return models.DirectionNeutral, 0
	}

	change := (predicted - lastKnown) / lastKnown * 100

	switch {
	case change > directionThreshold:
		return models.DirectionUp, change
	case change < -directionThreshold:
		return models.DirectionDown, change
	default:
		return models.DirectionNeutral, change
	}
}
