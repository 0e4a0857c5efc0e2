package handlers

import (
	"errors"

	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/arzan03/scholarship-server/internal/store"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler turns handler errors into {"message": ...} responses.
// Unclassified errors are logged and reported as 500.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "internal server error"

		var fe *fiber.Error
		switch {
		case errors.As(err, &fe):
			code, message = fe.Code, fe.Message
		case errors.Is(err, store.ErrInvalidID), errors.Is(err, services.ErrInvalidAmount):
			code, message = fiber.StatusBadRequest, err.Error()
		case errors.Is(err, services.ErrListingNotFound), errors.Is(err, services.ErrNoImage):
			code, message = fiber.StatusNotFound, err.Error()
		default:
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("request_id", requestID(c)),
				zap.Error(err))
		}

		return c.Status(code).JSON(fiber.Map{"message": message})
	}
}

func requestID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
