package timesfm

import (
	"github.com/quantframe/forecast-api-go/internal/models"
)

// HealthResponse is the model runner's health payload. The runner
// answers 200 even while the model is still loading; readiness is
// carried in Status.
type HealthResponse struct {
	Status    string `json:"status"`
	Model     string `json:"model"`
	Timestamp string `json:"timestamp"`
}

// StatusReady is the Status value reported once the model is loaded.
const StatusReady = "ok"

// ErrorResponse is the runner's error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ForecastRequest is the wire request for a forecast call. One horizon
// applies across the whole batch dimension.
type ForecastRequest struct {
	Horizon int         `json:"horizon"`
	Inputs  [][]float64 `json:"inputs"`
}

// ForecastResponse is the wire response. Outputs are index-aligned with
// the request inputs. QuantileForecasts is null when the model was
// compiled without a quantile head.
type ForecastResponse struct {
	PointForecasts    [][]float64                `json:"point_forecasts"`
	QuantileForecasts []*models.QuantileForecast `json:"quantile_forecasts"`
	ModelVersion      string                     `json:"model_version"`
}

// ForecastOutput is the service-level result of one inference call.
type ForecastOutput struct {
	PointForecasts    [][]float64
	QuantileForecasts []*models.QuantileForecast
	ModelVersion      string
}

// QuantilesFor returns the quantile forecast aligned with input index i,
// or nil when quantile output is absent or shorter than expected.
func (o *ForecastOutput) QuantilesFor(i int) *models.QuantileForecast {
	if o == nil || i < 0 || i >= len(o.QuantileForecasts) {
		return nil
	}
	q := o.QuantileForecasts[i]
	if q.Empty() {
		return nil
	}
	return q
}
