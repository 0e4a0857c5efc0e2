package middleware

import (
	"context"

	"github.com/arzan03/scholarship-server/internal/models"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrNotAdmin is the response when the caller is authenticated but not an admin.
// It shares the 401 status of ErrUnauthorized; clients rely on that.
var ErrNotAdmin = fiber.NewError(fiber.StatusUnauthorized, "unauthorized access!!")

// RoleLookup resolves the stored role for an email.
type RoleLookup interface {
	Role(ctx context.Context, email string) (models.Role, bool, error)
}

// RequireAdmin must run after Authenticate. It reads the caller's user record
// on every request and lets only admins through.
func RequireAdmin(users RoleLookup, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claim := ClaimFrom(c)
		if claim == nil {
			return ErrUnauthorized
		}

		role, found, err := users.Role(c.UserContext(), claim.Email())
		if err != nil {
			return err
		}
		if !found {
			log.Info("admin access denied", zap.String("path", c.Path()), zap.String("reason", "no user record"))
			return ErrNotAdmin
		}

		switch role {
		case models.RoleAdmin:
			return c.Next()
		case models.RoleHost, models.RoleApplicant:
			log.Info("admin access denied", zap.String("path", c.Path()), zap.Stringer("role", role))
			return ErrNotAdmin
		}
		log.Warn("unrecognised role", zap.String("path", c.Path()), zap.Int("role", int(role)))
		return ErrNotAdmin
	}
}
