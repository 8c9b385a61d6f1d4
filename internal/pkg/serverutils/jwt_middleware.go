package serverutils

import (
	"strings"

	"aquatech-web/pkg/identity"

	"github.com/gofiber/fiber/v2"
)

const (
	UserIDLocalKey    = "user_id"
	UserEmailLocalKey = "user_email"
)

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get(fiber.HeaderAuthorization)
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

// NewJwtMiddleware accepts access tokens issued by the identity service.
func NewJwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := BearerToken(ctx)
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
		}
		if secret == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Token authentication is not enabled"))
		}

		claims, err := identity.VerifyAccessToken(tokenStr, secret)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
		}

		ctx.Locals(UserIDLocalKey, claims.Subject)
		ctx.Locals(UserEmailLocalKey, claims.Email)
		return ctx.Next()
	}
}
