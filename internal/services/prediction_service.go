package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/quantframe/forecast-api-go/internal/models"
	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

// PredictionService runs the full post-processing pipeline: validate,
// forecast through the adapter, classify direction, estimate
// confidence, and assemble the response. All state is request-scoped;
// the injected forecaster is the only shared resource and is treated
// as read-only.
type PredictionService struct {
	adapter    *ForecastAdapter
	validator  InputValidator
	classifier DirectionClassifier
	estimator  ConfidenceEstimator
	builder    ResponseBuilder
	logger     *logrus.Logger
}

// NewPredictionService creates a new prediction service instance.
func NewPredictionService(forecaster timesfm.Forecaster, logger *logrus.Logger) *PredictionService {
	return &PredictionService{
		adapter: NewForecastAdapter(forecaster),
		logger:  logger,
	}
}

// Predict produces a prediction for a single symbol.
func (s *PredictionService) Predict(ctx context.Context, req *models.PredictionRequest) (*models.PredictionResult, error) {
	vr, err := s.validator.ValidateSingle(req)
	if err != nil {
		return nil, err
	}

	forecasts, modelVersion, err := s.adapter.Forecast(ctx, []ValidatedRequest{*vr})
	if err != nil {
		s.logger.WithError(err).Error("Prediction failed")
		return nil, err
	}

	result := s.buildResult(*vr, forecasts[0], modelVersion, time.Now())
	return &result, nil
}

// PredictBatch produces predictions for a batch of symbols. Invalid
// items are dropped by validation; surviving items share one model call
// and keep their input order in the response.
func (s *PredictionService) PredictBatch(ctx context.Context, batch *models.BatchPredictionRequest) (*models.BatchPredictionResponse, error) {
	accepted, err := s.validator.ValidateBatch(batch)
	if err != nil {
		return nil, err
	}

	forecasts, modelVersion, err := s.adapter.Forecast(ctx, accepted)
	if err != nil {
		s.logger.WithError(err).Error("Batch prediction failed")
		return nil, err
	}

	now := time.Now()
	predictions := make([]models.PredictionResult, len(accepted))
	for i, vr := range accepted {
		predictions[i] = s.buildResult(vr, forecasts[i], modelVersion, now)
	}

	return s.builder.BuildBatch(predictions, modelVersion, now), nil
}

func (s *PredictionService) buildResult(vr ValidatedRequest, forecast SymbolForecast, modelVersion string, at time.Time) models.PredictionResult {
	lastKnown := vr.Prices[len(vr.Prices)-1]
	direction, percentChange := s.classifier.Classify(lastKnown, forecast.Point)
	confidence := s.estimator.Estimate(forecast.Quantiles, percentChange)
	return s.builder.Build(vr, forecast, direction, percentChange, confidence, modelVersion, at)
}
