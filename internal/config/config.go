package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/weatherops/cwa-forecast-export/internal/forecast"
)

var validate = validator.New()

// ErrMissing is returned when a required environment variable is absent.
var ErrMissing = errors.New("missing required configuration")

// AppConfig carries everything the export job reads from its environment.
type AppConfig struct {
	// CWA open-data API credential.
	APIKey string `validate:"required"`

	// Destination GCS bucket.
	BucketName string `validate:"required"`

	BaseURL string

	// HTTPTimeout bounds the forecast fetch; UploadTimeout bounds the
	// storage write plus its verification.
	HTTPTimeout   time.Duration
	UploadTimeout time.Duration

	// ObjectPrefix namespaces output objects inside the bucket.
	ObjectPrefix string

	// Regions to request; defaults to the full 22-region list.
	Regions []string

	// ExportInterval > 0 switches the job from single-shot to scheduled
	// mode.
	ExportInterval time.Duration

	// Port for the status server (scheduled mode only).
	Port string
}

// Load reads configuration from environment with sensible defaults. The API
// key and bucket name are required and checked before any I/O happens.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		APIKey:       os.Getenv("CWA_API_KEY"),
		BucketName:   os.Getenv("GCS_BUCKET_NAME"),
		BaseURL:      getenvDefault("CWA_BASE_URL", ""),
		ObjectPrefix: getenvDefault("OBJECT_PREFIX", "weather/"),
		Port:         getenvDefault("PORT", "8080"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissing, err)
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.UploadTimeout, err = getenvDuration("UPLOAD_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ExportInterval, err = getenvDuration("EXPORT_INTERVAL", 0); err != nil {
		return nil, err
	}

	cfg.Regions = loadRegions()

	return cfg, nil
}

// loadRegions returns the region list to request. CWA_LOCATIONS overrides
// the built-in 22-region list, mainly so tests and ad-hoc runs can use a
// smaller set.
func loadRegions() []string {
	raw := os.Getenv("CWA_LOCATIONS")
	if raw == "" {
		return forecast.DefaultRegions
	}

	parts := strings.Split(raw, ",")
	regions := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			regions = append(regions, p)
		}
	}
	return regions
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
