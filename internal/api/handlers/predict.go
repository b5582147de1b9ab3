package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantframe/forecast-api-go/internal/cache"
	"github.com/quantframe/forecast-api-go/internal/models"
	"github.com/quantframe/forecast-api-go/internal/services"
	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

// PredictionHandler serves the prediction endpoints. The forecaster is
// consulted for readiness before any work; validation errors return
// before the model is ever called.
type PredictionHandler struct {
	service    *services.PredictionService
	forecaster timesfm.Forecaster
	cache      *cache.PredictionCache
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(service *services.PredictionService, forecaster timesfm.Forecaster, predictionCache *cache.PredictionCache) *PredictionHandler {
	return &PredictionHandler{
		service:    service,
		forecaster: forecaster,
		cache:      predictionCache,
	}
}

// Predict handles POST /predict.
func (h *PredictionHandler) Predict(c *gin.Context) {
	if !h.forecaster.IsReady(c.Request.Context()) {
		h.renderError(c, services.ErrModelNotReady)
		return
	}

	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderError(c, services.ErrMissingBody)
		return
	}
	// An empty object decodes fine but carries no data.
	if req.IsZero() {
		h.renderError(c, services.ErrMissingBody)
		return
	}

	// Key the cache on the normalized request so equivalent requests
	// (coerced horizon, defaulted symbol) share one entry.
	var cacheKey string
	if h.cache != nil {
		symbol := req.Symbol
		if symbol == "" {
			symbol = models.DefaultSymbol
		}
		cacheKey = h.cache.Key(symbol, models.NormalizeHorizon(req.Horizon), req.Prices)
		if cached, found := h.cache.Get(c.Request.Context(), cacheKey); found {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.service.Predict(c.Request.Context(), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(c.Request.Context(), cacheKey, result)
	}

	c.JSON(http.StatusOK, result)
}

// BatchPredict handles POST /batch-predict. Batches always hit the
// model directly: one call covers the whole batch either way.
func (h *PredictionHandler) BatchPredict(c *gin.Context) {
	if !h.forecaster.IsReady(c.Request.Context()) {
		h.renderError(c, services.ErrModelNotReady)
		return
	}

	var req models.BatchPredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderError(c, services.ErrMissingBody)
		return
	}

	result, err := h.service.PredictBatch(c.Request.Context(), &req)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// renderError maps the service error taxonomy onto HTTP statuses.
// Forecasting failures pass the underlying message through verbatim.
func (h *PredictionHandler) renderError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Reason})
		return
	}

	if errors.Is(err, services.ErrModelNotReady) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Model not loaded"})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
