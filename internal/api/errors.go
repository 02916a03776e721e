package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/UnknownOlympus/pallas/internal/lib/apperr"
	"github.com/UnknownOlympus/pallas/internal/lib/logger/sl"
	"github.com/gofiber/fiber/v2"
)

// errorHandler renders every error returned by a handler as a JSON error body.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(errorResponse{Error: errorBody{
				Code:    statusCode(fiberErr.Code),
				Message: fiberErr.Message,
			}})
		}

		var kinded apperr.Kinded
		if !errors.As(err, &kinded) || kinded.Kind() == apperr.KindInternal {
			log.ErrorContext(c.UserContext(), "Request failed",
				"method", c.Method(), "path", c.Path(), "request_id", requestID(c), sl.Err(err))

			return c.Status(http.StatusInternalServerError).JSON(errorResponse{Error: errorBody{
				Code:    apperr.KindInternal.String(),
				Message: "internal server error",
			}})
		}

		body := errorBody{
			Code:    kinded.Kind().String(),
			Message: kinded.Error(),
		}

		var appErr *apperr.Error
		if errors.As(kinded, &appErr) {
			body.Message = appErr.Message
			body.Details = appErr.Details
		}

		return c.Status(kinded.Kind().HTTPStatus()).JSON(errorResponse{Error: body})
	}
}

// statusCode turns a status into an UPPER_CASE_WITH_UNDERSCORES code, e.g. "METHOD_NOT_ALLOWED".
func statusCode(status int) string {
	return strings.ToUpper(strings.ReplaceAll(http.StatusText(status), " ", "_"))
}
