package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/quantframe/forecast-api-go/internal/api"
	"github.com/quantframe/forecast-api-go/internal/cache"
	"github.com/quantframe/forecast-api-go/internal/config"
	"github.com/quantframe/forecast-api-go/internal/logging"
	"github.com/quantframe/forecast-api-go/internal/timesfm"
)

const serviceName = "forecast-api"

func main() {
	// Load .env if present; real env always wins
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logging.NewStandardLogger(cfg.LogLevel)

	logger := logrus.New()
	logger.SetLevel(logging.ParseLogrusLevel(cfg.LogLevel))

	// Initialize Redis. A missing cache degrades the service, it does
	// not stop it.
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg.Redis)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, prediction cache disabled")
			redisClient = nil
		}
	}
	defer func() {
		if redisClient != nil {
			_ = redisClient.Close()
		}
	}()

	predictionCache := cache.NewPredictionCache(redisClient, cfg.Cache.PredictionTTLDuration())

	// Initialize the model runner service once; it is injected into the
	// request path and torn down at shutdown, never re-acquired per
	// request.
	forecaster := timesfm.NewService(&cfg.Forecaster, logger)
	if err := forecaster.Initialize(context.Background()); err != nil {
		// The runner may still be loading its model; readiness is
		// re-checked per request.
		logger.WithError(err).Warn("Model runner not reachable at startup")
	}
	defer func() {
		_ = forecaster.Close()
	}()

	// Setup Gin router
	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	api.SetupRoutes(router, forecaster, predictionCache, redisClient, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.LogStartup(serviceName, forecaster.ModelVersion(), cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.LogShutdown(serviceName, "signal received")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
