package serverutils

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
)

// AuthTokenMiddleware gates routes behind a shared bearer token.
// An empty configured token disables the gate entirely.
func AuthTokenMiddleware(token string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if token == "" {
			return ctx.Next()
		}

		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
		}
		provided := authHeader[7:]

		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
		}

		return ctx.Next()
	}
}
