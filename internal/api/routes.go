package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantframe/forecast-api-go/internal/api/handlers"
	"github.com/quantframe/forecast-api-go/internal/cache"
	"github.com/quantframe/forecast-api-go/internal/middleware"
	"github.com/quantframe/forecast-api-go/internal/services"
	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

// SetupRoutes wires the handlers onto the router. The forecaster is the
// injected model capability; redisClient may be nil when caching is
// disabled.
func SetupRoutes(router *gin.Engine, forecaster timesfm.Forecaster, predictionCache *cache.PredictionCache, redisClient *redis.Client, logger *logrus.Logger) {
	router.Use(middleware.RequestID())

	predictionService := services.NewPredictionService(forecaster, logger)
	predictionHandler := handlers.NewPredictionHandler(predictionService, forecaster, predictionCache)
	healthHandler := handlers.NewHealthHandler(forecaster, redisClient)

	router.GET("/health", healthHandler.HealthCheck)
	router.POST("/predict", predictionHandler.Predict)
	router.POST("/batch-predict", predictionHandler.BatchPredict)
}
