package api

import (
	"log/slog"
	"time"

	"github.com/UnknownOlympus/pallas/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// NewApp builds the fiber application serving the employee API.
func NewApp(log *slog.Logger, service EmployeeService, appMetrics *metrics.Metrics, timeout time.Duration) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pallas",
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(log),
	})

	registerMiddlewares(app, log, appMetrics, timeout)
	registerRoutes(app, NewEmployeesHandler(service))

	return app
}

func registerRoutes(app *fiber.App, employees *EmployeesHandler) {
	group := app.Group("/api/employees")

	group.Post("", employees.Create)
	group.Get("", employees.List)
	group.Get("/search", employees.Search)
	group.Get("/:id", employees.Get)
	group.Put("/:id", employees.Update)
	group.Delete("/:id", employees.Delete)
}
