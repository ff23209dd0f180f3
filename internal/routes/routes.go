package routes

import (
	"view-analytics-service/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, viewController controller.ViewController) {
	app.Post("/views", viewController.RecordView)
	app.Post("/views/progress", viewController.RecordProgress)
	app.Get("/views/most-watched", viewController.GetMostWatched)
	app.Get("/views/counts", viewController.GetViewCounts)
	app.Get("/players/:id/analytics", viewController.GetPlayerAnalytics)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
