package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string           `mapstructure:"environment"`
	LogLevel    string           `mapstructure:"log_level"`
	Server      ServerConfig     `mapstructure:"server"`
	Forecaster  ForecasterConfig `mapstructure:"forecaster"`
	Redis       RedisConfig      `mapstructure:"redis"`
	Cache       CacheConfig      `mapstructure:"cache"`
}

type ServerConfig struct {
	Port            int    `mapstructure:"port"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// ForecasterConfig describes the external model runner sidecar.
type ForecasterConfig struct {
	ServiceURL   string `mapstructure:"service_url"`
	Timeout      int    `mapstructure:"timeout"`
	ModelVersion string `mapstructure:"model_version"`
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	PredictionTTL string `mapstructure:"prediction_ttl"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath(".")

	// Set default values
	setDefaults()

	// Enable environment variable support
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		// Config file not found, use defaults and environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Normalize environment to lowercase for consistent comparison
	config.Environment = strings.ToLower(config.Environment)

	if config.Forecaster.ServiceURL == "" {
		return nil, fmt.Errorf("forecaster.service_url must not be empty")
	}

	// Validate duration strings up front so startup fails fast
	if config.Cache.PredictionTTL != "" {
		if _, err := time.ParseDuration(config.Cache.PredictionTTL); err != nil {
			return nil, fmt.Errorf("invalid prediction cache TTL: %w", err)
		}
	}
	if config.Server.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(config.Server.ShutdownTimeout); err != nil {
			return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
		}
	}

	return &config, nil
}

// PredictionTTLDuration returns the parsed prediction cache TTL.
func (c *CacheConfig) PredictionTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.PredictionTTL)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ShutdownTimeoutDuration returns the parsed graceful shutdown deadline.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment", "development")
	viper.SetDefault("log_level", "info")

	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Forecaster sidecar
	viper.SetDefault("forecaster.service_url", "http://localhost:5001")
	viper.SetDefault("forecaster.timeout", 30)
	viper.SetDefault("forecaster.model_version", "timesfm-2.5-200m")

	// Redis
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	// Cache
	viper.SetDefault("cache.prediction_ttl", "30s")
}
