package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"error": message,
	})
}

// RespondWithErrorDetails sends a JSON error response carrying a short
// diagnostic string alongside the safe message. Full error objects are never
// forwarded to the caller.
func RespondWithErrorDetails(c *fiber.Ctx, statusCode int, message, details string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"error":   message,
		"details": details,
	})
}

// RespondWithJSON sends a JSON success response. Callers wrap the payload
// under a resource-named key, e.g. fiber.Map{"exercise": exercise}.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(data)
}

// FormatValidationErrors formats validation errors from validator/v10 into a
// single message naming the offending fields.
func FormatValidationErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	msg := ""
	for i, verr := range verrs {
		if i > 0 {
			msg += "; "
		}
		msg += fmt.Sprintf("field '%s' failed on the '%s' rule", verr.Field(), verr.Tag())
	}
	return msg
}
