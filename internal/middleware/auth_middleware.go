package middleware

import (
	"strings"

	"github.com/arzan03/scholarship-server/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClaimKey is the c.Locals key holding the verified services.Claim.
const ClaimKey = "claim"

// ErrUnauthorized is the response for a missing or invalid token.
var ErrUnauthorized = fiber.NewError(fiber.StatusUnauthorized, "unauthorized access")

// TokenVerifier checks a bearer token and returns its claim.
type TokenVerifier interface {
	Verify(token string) (services.Claim, error)
}

// Authenticate requires an "Authorization: Bearer <token>" header and stores
// the verified claim for later handlers.
func Authenticate(tokens TokenVerifier, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrUnauthorized
		}

		// Anything after the first space is the token, as long as the scheme is Bearer.
		scheme, tokenString, _ := strings.Cut(header, " ")
		if !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenString) == "" {
			return ErrUnauthorized
		}

		claim, err := tokens.Verify(strings.TrimSpace(tokenString))
		if err != nil {
			log.Info("token rejected", zap.String("path", c.Path()), zap.Error(err))
			return ErrUnauthorized
		}

		c.Locals(ClaimKey, claim)
		return c.Next()
	}
}

// ClaimFrom returns the claim stored by Authenticate, or nil.
func ClaimFrom(c *fiber.Ctx) services.Claim {
	claim, _ := c.Locals(ClaimKey).(services.Claim)
	return claim
}
