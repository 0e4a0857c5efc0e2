package handlers

import (
	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/gofiber/fiber/v2"
)

// IssueToken signs the posted identity claim and returns {"token": ...}.
func (h *Handler) IssueToken(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return err
	}
	if err := requireEmail(doc); err != nil {
		return err
	}

	token, err := h.Tokens.Issue(services.Claim(doc))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"token": token})
}
