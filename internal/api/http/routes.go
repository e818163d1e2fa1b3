package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/weatherops/cwa-forecast-export/internal/scheduler"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app. The server only
// exists in scheduled mode; single-shot runs have no inbound surface.
func RegisterRoutes(app *fiber.App, sched *scheduler.Scheduler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "cwa-forecast-export",
		})
	})

	// Last completed run, for scheduler-level alerting.
	app.Get("/status", func(c *fiber.Ctx) error {
		report := sched.LastReport()
		if report == nil {
			return c.JSON(fiber.Map{
				"state":   "waiting",
				"message": "no export run has completed yet",
			})
		}
		return c.JSON(report)
	})
}
