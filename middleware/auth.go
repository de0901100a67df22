package middleware

import (
	"os"
	"strings"

	"visit-access/types"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// RequireServiceToken guards staff-facing routes with an HS256 service
// token. Twilio webhooks stay outside this middleware: the provider cannot
// carry our bearer token.
func RequireServiceToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := os.Getenv("SERVICE_JWT_SECRET")
		if secret == "" {
			// No secret configured means the deployment runs open, e.g.
			// local development.
			return c.Next()
		}

		authHeader := c.Get("Authorization")
		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			return unauthorized(c, "Missing or malformed Authorization header")
		}

		token, err := jwt.Parse(tokenParts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return unauthorized(c, "Invalid service token")
		}

		if claims, ok := token.Claims.(jwt.MapClaims); ok {
			c.Locals("service", claims)
		}
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
		Status:  fiber.StatusUnauthorized,
		Message: message,
	})
}
