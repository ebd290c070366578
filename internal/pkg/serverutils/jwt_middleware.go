// FILE: internal/pkg/serverutils/jwt_middleware.go
package serverutils

import (
	"errors"

	"vauntico-access-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// NewJwtMiddleware authenticates requests with a Bearer access token and
// stores the caller's identity in the request locals.
func NewJwtMiddleware(tokenService service.ITokenService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}

		claims, err := tokenService.VerifyAccessToken(authHeader[7:])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Token expired"))
			}
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		ctx.Locals("user_id", claims.UserId)
		ctx.Locals("email", claims.Email)
		ctx.Locals("tier", claims.Tier)
		return ctx.Next()
	}
}
