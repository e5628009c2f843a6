package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/paradewx/parade-weather/internal/api/http"
	"github.com/paradewx/parade-weather/internal/cache"
	"github.com/paradewx/parade-weather/internal/climate"
	"github.com/paradewx/parade-weather/internal/climate/providers"
	"github.com/paradewx/parade-weather/internal/config"
	"github.com/paradewx/parade-weather/internal/geocode"
	"github.com/paradewx/parade-weather/internal/observability"
	"github.com/paradewx/parade-weather/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		observability.NewLogger("error", "text").Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound record-source calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Series cache: in-process LRU by default, Redis when configured.
	var seriesCache climate.SeriesCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		seriesCache = cache.NewRedis(redisClient, cfg.CacheTTL, log)
		log.Info("using redis series cache", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	} else {
		seriesCache = cache.NewMemory(cfg.CacheMaxEntries, cfg.CacheTTL)
		log.Info("using in-memory series cache", "max_entries", cfg.CacheMaxEntries, "ttl", cfg.CacheTTL)
	}

	source := providers.NewPowerSource(httpClient, cfg.PowerBaseURL)
	service := climate.NewService(source, seriesCache, cfg.Years, log, metrics)

	// Geocoding backend: Nominatim by default, Google when a key is set.
	var geocoder geocode.Geocoder
	if cfg.GoogleAPIKey != "" {
		geocoder = geocode.NewGoogle(cfg.GoogleAPIKey)
		log.Info("using google geocoder")
	} else {
		geocoder = geocode.NewNominatim(cfg.NominatimBaseURL, cfg.GeocodeUserAgent, cfg.HTTPTimeout)
		log.Info("using nominatim geocoder")
	}

	// Scheduler that periodically warms the cache for favorite locations.
	sched := scheduler.New(cfg.Favorites, cfg.WarmInterval, service, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "parade-weather",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          90 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
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

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "parade-weather",
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpapi.RegisterRoutes(app, service, geocoder, metrics)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}
