package timesfm

import "context"

// Forecaster defines the model capability consumed by the request path.
type Forecaster interface {
	// Service lifecycle
	Initialize(ctx context.Context) error
	IsReady(ctx context.Context) bool
	Close() error

	// Inference
	Forecast(ctx context.Context, horizon int, inputs [][]float64) (*ForecastOutput, error)
	ModelVersion() string
}

// ModelClient defines the low-level HTTP operations against the runner.
type ModelClient interface {
	HealthCheck(ctx context.Context) (*HealthResponse, error)
	Forecast(ctx context.Context, req *ForecastRequest) (*ForecastResponse, error)
	Close() error
}

// Ensure our implementations satisfy the interfaces
var (
	_ Forecaster  = (*Service)(nil)
	_ ModelClient = (*Client)(nil)
)
