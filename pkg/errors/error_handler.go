package errors

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
)

// HandleError translates a service error into an HTTP response. The original
// cause is logged; only code and message reach the client.
func HandleError(c *fiber.Ctx, err error) error {
	if err == nil {
		return nil
	}

	var me *MediaError
	if errors.As(err, &me) {
		if me.Err != nil {
			log.Printf("media error [%s]: %v", me.Code, me.Err)
		}

		var status int
		switch me.Kind {
		case KindValidation:
			status = fiber.StatusBadRequest
		case KindNotFound:
			status = fiber.StatusNotFound
		case KindQueue:
			status = fiber.StatusServiceUnavailable
		default:
			status = fiber.StatusInternalServerError
		}

		return c.Status(status).JSON(fiber.Map{
			"error":   me.Code,
			"message": me.Message,
		})
	}

	log.Printf("unexpected error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "internal_error",
		"message": "internal server error",
	})
}
