package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/weatherops/cwa-forecast-export/internal/pipeline"
	"github.com/weatherops/cwa-forecast-export/internal/scheduler"
)

// TestStatusBeforeFirstRun verifies the status endpoint answers even before
// any export run has completed.
func TestStatusBeforeFirstRun(t *testing.T) {
	app := fiber.New()

	sched := scheduler.New(pipeline.New(nil, nil, nil), time.Hour)
	RegisterRoutes(app, sched)

	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if body["state"] != "waiting" {
		t.Fatalf("expected waiting state, got %v", body)
	}
}

func TestHealth(t *testing.T) {
	app := fiber.New()

	sched := scheduler.New(pipeline.New(nil, nil, nil), time.Hour)
	RegisterRoutes(app, sched)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
