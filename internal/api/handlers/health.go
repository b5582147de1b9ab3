package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

// HealthHandler reports model readiness and dependency health.
type HealthHandler struct {
	forecaster timesfm.Forecaster
	redis      *redis.Client
}

// HealthResponse is the health endpoint payload. Status mirrors the
// model runner's readiness; the cache is reported but never makes the
// service unhealthy on its own.
type HealthResponse struct {
	Status    string            `json:"status"`
	Model     string            `json:"model"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(forecaster timesfm.Forecaster, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		forecaster: forecaster,
		redis:      redisClient,
	}
}

// HealthCheck handles GET /health.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	services := make(map[string]string)

	ready := h.forecaster.IsReady(c.Request.Context())
	if ready {
		services["forecaster"] = "healthy"
	} else {
		services["forecaster"] = "unhealthy: model not loaded"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			services["cache"] = "unhealthy: " + err.Error()
		} else {
			services["cache"] = "healthy"
		}
	} else {
		services["cache"] = "disabled"
	}

	status := "ok"
	statusCode := http.StatusOK
	if !ready {
		status = "model_not_loaded"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:    status,
		Model:     h.forecaster.ModelVersion(),
		Timestamp: time.Now(),
		Services:  services,
	})
}
