package handlers

import (
	"github.com/arzan03/scholarship-server/internal/models"
	"github.com/gofiber/fiber/v2"
)

// SaveUser records an identity-provider login: insert on first sight,
// status-only update on a role request, otherwise echo the stored user.
func (h *Handler) SaveUser(c *fiber.Ctx) error {
	doc, err := parseDocument(c)
	if err != nil {
		return err
	}
	if err := requireEmail(doc); err != nil {
		return err
	}

	result, err := h.Users.Save(c.UserContext(), doc)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// ListUsers returns every user. Mounted behind Authenticate and RequireAdmin.
func (h *Handler) ListUsers(c *fiber.Ctx) error {
	return h.UserDocs.List(c)
}

// GetUser returns the user with the :email parameter, or null.
func (h *Handler) GetUser(c *fiber.Ctx) error {
	return h.UserDocs.GetBy(models.UserEmailField, "email")(c)
}

// UpdateUser merges the body into the user with the :email parameter.
func (h *Handler) UpdateUser(c *fiber.Ctx) error {
	patch, err := parseDocument(c)
	if err != nil {
		return err
	}
	delete(patch, "_id")

	result, err := h.Users.Update(c.UserContext(), c.Params("email"), patch)
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// DeleteUser removes the user with the :id parameter.
func (h *Handler) DeleteUser(c *fiber.Ctx) error {
	return h.UserDocs.Delete("id")(c)
}
