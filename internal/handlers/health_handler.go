package handlers

import (
	"context"
	"time"

	"github.com/arzan03/scholarship-server/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// Root is the liveness string.
func (h *Handler) Root(c *fiber.Ctx) error {
	return c.SendString("Hello from Scholarship Server..")
}

// Health pings every backing dependency in parallel.
func (h *Handler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	checks := []utils.Check{{Name: "mongo", Run: h.Store.Users.Ping}}
	if h.Images != nil {
		checks = append(checks, utils.Check{Name: "minio", Run: h.Images.Ping})
	}

	status := fiber.StatusOK
	report := fiber.Map{}
	for name, err := range utils.RunChecks(ctx, checks) {
		if err != nil {
			status = fiber.StatusServiceUnavailable
			report[name] = err.Error()
			continue
		}
		report[name] = "ok"
	}
	return c.Status(status).JSON(report)
}
