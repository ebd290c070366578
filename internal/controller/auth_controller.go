// FILE: internal/controller/auth_controller.go
// Controller for the token lifecycle endpoints
package controller

import (
	"errors"

	"vauntico-access-be/internal/dto"
	"vauntico-access-be/internal/pkg/serverutils"
	"vauntico-access-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type authController struct {
	tokenService service.ITokenService
}

func NewAuthController(tokenService service.ITokenService) AuthController {
	return &authController{
		tokenService: tokenService,
	}
}

func (c *authController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	auth := api.Group("/auth")
	auth.Post("/refresh", c.Refresh)
	auth.Post("/logout", c.Logout)
	auth.Post("/logout-all", jwtMiddleware, c.LogoutAll)
}

// Refresh exchanges a valid refresh token for a fresh pair. The presented
// token is rotated: it is invalidated before the new pair is returned.
// @Summary Refresh an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} dto.RefreshTokenResponse
// @Router /api/auth/refresh [post]
func (c *authController) Refresh(ctx *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := ctx.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing refresh token"))
	}

	claims, err := c.tokenService.VerifyRefreshToken(ctx.Context(), req.RefreshToken)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, refreshErrorMessage(err)))
	}

	if err := c.tokenService.InvalidateRefreshToken(ctx.Context(), req.RefreshToken); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to rotate refresh token"))
	}

	pair, err := c.tokenService.GenerateTokenPair(ctx.Context(), claims.UserId, claims.Email, claims.Tier)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to issue tokens"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Token refreshed", dto.RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}))
}

// Logout invalidates the presented refresh token.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := ctx.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing refresh token"))
	}

	if err := c.tokenService.InvalidateRefreshToken(ctx.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to invalidate token"))
	}

	return ctx.JSON(serverutils.SuccessResponse("Logged out", nil))
}

// LogoutAll revokes every outstanding token of the authenticated caller.
func (c *authController) LogoutAll(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)
	if err := c.tokenService.InvalidateAllUserTokens(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to revoke tokens"))
	}
	return ctx.JSON(serverutils.SuccessResponse("All sessions revoked", nil))
}

func refreshErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrTokenExpired):
		return "Refresh token expired"
	case errors.Is(err, service.ErrTokenRevoked):
		return "Refresh token revoked"
	default:
		return "Invalid refresh token"
	}
}
