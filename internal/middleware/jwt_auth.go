package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/gymhub/internal/domain"
	"github.com/mansoorceksport/gymhub/internal/service"
)

// PrincipalKey is the fiber.Locals key holding the authenticated domain.Principal
const PrincipalKey = "principal"

// VerifyToken validates the bearer token and stores the caller's principal
func VerifyToken(tokens *service.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization token",
			})
		}

		// format: "Bearer <token>"
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))

		claims, err := tokens.ValidateAccessToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(PrincipalKey, claims.Principal())
		return c.Next()
	}
}

// GetPrincipal returns the principal stored by VerifyToken
func GetPrincipal(c *fiber.Ctx) (domain.Principal, bool) {
	p, ok := c.Locals(PrincipalKey).(domain.Principal)
	return p, ok && p.ID != ""
}

// AuthorizeRole rejects callers whose role is not in allowedRoles. Services run
// the full role gate again; this only keeps whole route groups closed.
func AuthorizeRole(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := GetPrincipal(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing user context",
			})
		}

		for _, role := range allowedRoles {
			if p.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":          domain.ErrUnauthorized.Error(),
			"required_roles": allowedRoles,
		})
	}
}
