package handlers

import (
	"github.com/arzan03/scholarship-server/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseDocument decodes a JSON object body verbatim.
func parseDocument(c *fiber.Ctx) (bson.M, error) {
	var doc bson.M
	if err := c.BodyParser(&doc); err != nil || doc == nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	return doc, nil
}

// requireEmail checks that doc carries a well-formed email field.
func requireEmail(doc bson.M) error {
	user := models.User{}
	user.Email, _ = doc[models.UserEmailField].(string)
	if err := validate.Struct(user); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "a valid email is required")
	}
	return nil
}
