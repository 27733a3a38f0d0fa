package middleware

import (
	"crypto/subtle"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/pkg/utils"
)

const personalOperator = "personal-access-token"

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware accepts the personal access token, raw or as a bearer
// token, or a JWT signed with SECRET_KEY.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if header == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		if m.cfg.PersonalAccessToken != "" &&
			subtle.ConstantTimeCompare([]byte(token), []byte(m.cfg.PersonalAccessToken)) == 1 {
			c.Locals("operator", personalOperator)
			return c.Next()
		}

		if m.cfg.SecretKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		claims, err := utils.ValidateToken(m.cfg.SecretKey, token)
		if err != nil {
			log.Printf("Token validation failed: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("operator", claims.Operator)
		return c.Next()
	}
}
