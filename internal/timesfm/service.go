package timesfm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantframe/forecast-api-go/internal/config"
)

// Service provides high-level access to the pretrained model runner.
// It is constructed once at process start, injected into the request
// path, and closed at shutdown; it holds no per-request state.
type Service struct {
	client       ModelClient
	logger       *logrus.Logger
	mu           sync.RWMutex
	modelVersion string
	lastSeen     time.Time
}

// NewService creates a new model runner service instance.
func NewService(cfg *config.ForecasterConfig, logger *logrus.Logger) *Service {
	return &Service{
		client:       NewClient(cfg),
		logger:       logger,
		modelVersion: cfg.ModelVersion,
	}
}

// Initialize verifies the runner is reachable and records the model
// identity it reports. A runner that answers but has no model loaded is
// not an initialization failure; readiness is re-checked per request.
func (s *Service) Initialize(ctx context.Context) error {
	health, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("failed to reach model runner: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if health.Model != "" {
		s.modelVersion = health.Model
	}
	s.lastSeen = time.Now()
	s.logger.Infof("Initialized model runner service (model=%s, status=%s)", s.modelVersion, health.Status)

	return nil
}

// IsReady checks whether the runner has a loaded model.
func (s *Service) IsReady(ctx context.Context) bool {
	health, err := s.client.HealthCheck(ctx)
	if err != nil {
		return false
	}
	return health.Status == StatusReady
}

// Forecast runs one inference call for the given inputs and horizon.
func (s *Service) Forecast(ctx context.Context, horizon int, inputs [][]float64) (*ForecastOutput, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("inputs cannot be empty")
	}

	resp, err := s.client.Forecast(ctx, &ForecastRequest{
		Horizon: horizon,
		Inputs:  inputs,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.PointForecasts) != len(inputs) {
		return nil, fmt.Errorf("model runner returned %d forecasts for %d inputs", len(resp.PointForecasts), len(inputs))
	}

	version := resp.ModelVersion
	if version == "" {
		version = s.ModelVersion()
	}

	return &ForecastOutput{
		PointForecasts:    resp.PointForecasts,
		QuantileForecasts: resp.QuantileForecasts,
		ModelVersion:      version,
	}, nil
}

// ModelVersion returns the identity label of the served model.
func (s *Service) ModelVersion() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modelVersion
}

// Close releases the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}
