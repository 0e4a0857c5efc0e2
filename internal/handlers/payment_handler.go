package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// CreatePaymentIntent opens a payment intent for {"price": dollars} and
// returns {"clientSecret": ...}. Prices under one cent are rejected with 400.
func (h *Handler) CreatePaymentIntent(c *fiber.Ctx) error {
	var request struct {
		Price any `json:"price"`
	}
	if err := c.BodyParser(&request); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	secret, err := h.Payments.CreateIntent(c.UserContext(), request.Price)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"clientSecret": secret})
}
