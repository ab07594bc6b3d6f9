package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-forecast-state/internal/logging"
)

type AppConfig struct {
	Port string

	Logging logging.Config

	// ForecastBatchSize is the number of forecasts generated on first query.
	ForecastBatchSize int

	// StoreRoundTrip is the artificial delay applied to each store call.
	StoreRoundTrip time.Duration

	// StoreBreakerEnabled wraps the store in a circuit breaker.
	StoreBreakerEnabled bool

	// Sessions idle for longer than SessionMaxIdle are removed every SessionSweepInterval.
	SessionMaxIdle       time.Duration
	SessionSweepInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8080")
	cfg.Logging = logging.Config{
		Level:  getenvDefault("LOG_LEVEL", "info"),
		Format: getenvDefault("LOG_FORMAT", "json"),
	}

	cfg.ForecastBatchSize = getenvInt("FORECAST_BATCH_SIZE", 5)
	if cfg.ForecastBatchSize <= 0 {
		return nil, fmt.Errorf("invalid FORECAST_BATCH_SIZE: must be positive")
	}

	var err error
	if cfg.StoreRoundTrip, err = getenvDuration("STORE_ROUND_TRIP", "0s"); err != nil {
		return nil, err
	}
	cfg.StoreBreakerEnabled = getenvBool("STORE_BREAKER_ENABLED", true)

	if cfg.SessionMaxIdle, err = getenvDuration("SESSION_MAX_IDLE", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionSweepInterval, err = getenvDuration("SESSION_SWEEP_INTERVAL", "5m"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
