package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpapi "github.com/i474232898/weather-forecast-state/internal/api/http"
	"github.com/i474232898/weather-forecast-state/internal/config"
	"github.com/i474232898/weather-forecast-state/internal/logging"
	"github.com/i474232898/weather-forecast-state/internal/metrics"
	"github.com/i474232898/weather-forecast-state/internal/scheduler"
	"github.com/i474232898/weather-forecast-state/internal/session"
	"github.com/i474232898/weather-forecast-state/internal/store"
	"github.com/i474232898/weather-forecast-state/internal/weather"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logg, err := logging.Setup(cfg.Logging)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// One store per process, shared by every session.
	var forecasts weather.Store = store.NewMemoryStore(store.Options{
		BatchSize: cfg.ForecastBatchSize,
		RoundTrip: cfg.StoreRoundTrip,
		Logger:    logg,
	})
	if cfg.StoreBreakerEnabled {
		forecasts = store.NewBreakerStore(forecasts, "forecast-store")
	}

	sessions := session.NewManager(forecasts, logg, m)

	// Scheduler that periodically drops idle sessions.
	sched := scheduler.New(sessions, cfg.SessionSweepInterval, cfg.SessionMaxIdle, logg)
	if err := sched.Start(); err != nil {
		logg.Fatal().Err(err).Msg("failed to start scheduler")
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-forecast-state",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		// leaves room for the editor long-poll
		WriteTimeout: 75 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-forecast-state",
			"sessions": sessions.Len(),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// API routes.
	httpapi.RegisterRoutes(app, sessions)

	go func() {
		logg.Info().Str("port", cfg.Port).Msg("listening")
		if err := app.Listen(":" + cfg.Port); err != nil {
			logg.Error().Err(err).Msg("fiber server stopped")
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("error during shutdown")
	}
}
