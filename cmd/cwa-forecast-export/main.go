package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gcs "cloud.google.com/go/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/weatherops/cwa-forecast-export/internal/api/http"
	"github.com/weatherops/cwa-forecast-export/internal/config"
	"github.com/weatherops/cwa-forecast-export/internal/cwa"
	"github.com/weatherops/cwa-forecast-export/internal/forecast"
	"github.com/weatherops/cwa-forecast-export/internal/pipeline"
	"github.com/weatherops/cwa-forecast-export/internal/scheduler"
	"github.com/weatherops/cwa-forecast-export/internal/storage"
)

func main() {
	// Load configuration; required variables are checked before any I/O.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	client := cwa.NewClient(httpClient, cfg.APIKey, cfg.BaseURL, cfg.Regions)
	normalizer := forecast.NewNormalizer()

	log.Printf("INFO: using bucket name: %s", cfg.BucketName)
	gcsClient, err := gcs.NewClient(ctx)
	if err != nil {
		log.Fatalf("failed to initialize storage client: %v", err)
	}
	defer gcsClient.Close()

	writer := storage.NewWriter(
		storage.NewGCSBucket(gcsClient, cfg.BucketName),
		cfg.ObjectPrefix,
		cfg.UploadTimeout,
	)

	pipe := pipeline.New(client, normalizer, writer)

	if cfg.ExportInterval <= 0 {
		// Single-shot batch run: one attempt, the exit code reports the
		// outcome to whatever scheduled the process.
		if _, err := pipe.Run(ctx); err != nil {
			log.Fatalf("export run failed: %v", err)
		}
		return
	}

	// Scheduled mode: periodic runs plus a small status server.
	sched := scheduler.New(pipe, cfg.ExportInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "cwa-forecast-export",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
	})

	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, sched)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal.
	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
