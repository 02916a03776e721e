package api

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/UnknownOlympus/pallas/internal/lib/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FieldError represents a field-level validation error.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names so the client sees the fields it sent
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// bindAndValidate parses the JSON body into payload and applies its validate tags.
func bindAndValidate(c *fiber.Ctx, payload any) error {
	if err := c.BodyParser(payload); err != nil {
		return apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err)
	}

	if err := validate.Struct(payload); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return apperr.Wrap(apperr.KindInvalidInput, "invalid request body", err)
		}

		return apperr.New(apperr.KindInvalidInput, "validation failed", map[string]any{
			"errors": fieldErrors(validationErrors),
		})
	}

	return nil
}

func fieldErrors(validationErrors validator.ValidationErrors) []FieldError {
	result := make([]FieldError, 0, len(validationErrors))

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"
		case "email":
			msg = "must be a valid email address"
		case "max":
			msg = fmt.Sprintf("must not exceed %s characters", err.Param())
		default:
			msg = "failed on " + err.Tag()
		}

		result = append(result, FieldError{Field: err.Field(), Error: msg})
	}

	return result
}
