package api

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/UnknownOlympus/pallas/internal/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

const requestIDKey = "requestid"

// registerMiddlewares attaches request id, access logging, metrics, panic recovery
// and the per-request timeout, in that order.
func registerMiddlewares(app *fiber.App, log *slog.Logger, appMetrics *metrics.Metrics, timeout time.Duration) {
	app.Use(requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: requestIDKey,
	}))
	app.Use(requestLogger(log, appMetrics))
	app.Use(recover.New())
	if timeout > 0 {
		app.Use(requestTimeout(timeout))
	}
}

func requestTimeout(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// requestLogger renders handler errors itself so the logged and counted status is the final one.
func requestLogger(log *slog.Logger, appMetrics *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		duration := time.Since(startTime)
		status := c.Response().StatusCode()
		route := c.Route().Path

		if appMetrics != nil {
			appMetrics.HTTPRequests.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
			appMetrics.HTTPRequestDuration.WithLabelValues(c.Method(), route).Observe(duration.Seconds())
		}

		log.DebugContext(c.UserContext(), "Request handled",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("duration", duration),
			slog.String("request_id", requestID(c)),
		)

		return nil
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}
