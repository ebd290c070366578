// FILE: internal/controller/access_controller.go
// Controller for premium and feature access checks
package controller

import (
	"errors"

	"vauntico-access-be/internal/dto"
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/pkg/serverutils"
	"vauntico-access-be/internal/service"

	"gorm.io/gorm"

	"github.com/gofiber/fiber/v2"
)

type AccessController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type accessController struct {
	subscriptionService service.ISubscriptionService
}

func NewAccessController(subscriptionService service.ISubscriptionService) AccessController {
	return &accessController{
		subscriptionService: subscriptionService,
	}
}

func (c *accessController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	access := api.Group("/access", jwtMiddleware)
	access.Get("/premium", c.CheckPremium)
	access.Get("/feature/:key", c.CheckFeature)
	access.Post("/feature/:key/usage", c.IncrementUsage)
	access.Get("/subscription", c.GetSubscription)

	admin := api.Group("/admin/subscriptions", jwtMiddleware)
	admin.Get("/:userId", c.AdminGetSubscription)
	admin.Put("/:userId", c.UpdateSubscription)
	admin.Patch("/:userId", c.UpdateSubscription)
}

// CheckPremium reports whether the caller holds premium access
// @Summary Check premium access
// @Tags Access
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PremiumAccessResponse
// @Router /api/access/premium [get]
func (c *accessController) CheckPremium(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)
	premium := c.subscriptionService.HasPremiumAccess(ctx.Context(), userId)
	return ctx.JSON(serverutils.SuccessResponse("Premium access checked", dto.PremiumAccessResponse{
		UserId:  userId,
		Premium: premium,
	}))
}

// CheckFeature reports whether the caller may use a metered feature.
func (c *accessController) CheckFeature(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)
	featureKey := ctx.Params("key")
	allowed := c.subscriptionService.CanAccessFeature(ctx.Context(), userId, featureKey)
	return ctx.JSON(serverutils.SuccessResponse("Feature access checked", dto.FeatureAccessResponse{
		UserId:     userId,
		FeatureKey: featureKey,
		Allowed:    allowed,
	}))
}

// IncrementUsage records consumption of a metered feature. Always 202:
// metering is best-effort and never blocks the caller.
func (c *accessController) IncrementUsage(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)

	var req dto.IncrementUsageRequest
	// An empty body means a single use.
	_ = ctx.BodyParser(&req)
	if req.Delta <= 0 {
		req.Delta = 1
	}

	c.subscriptionService.IncrementFeatureUsage(ctx.Context(), userId, ctx.Params("key"), req.Delta)
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Usage recorded", nil))
}

func (c *accessController) GetSubscription(ctx *fiber.Ctx) error {
	userId, _ := ctx.Locals("user_id").(string)
	sub, err := c.subscriptionService.GetSubscription(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Subscription not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if sub == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Subscription not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription retrieved", toSubscriptionResponse(sub)))
}

// AdminGetSubscription returns any user's subscription by id.
func (c *accessController) AdminGetSubscription(ctx *fiber.Ctx) error {
	sub, err := c.subscriptionService.GetSubscription(ctx.Context(), ctx.Params("userId"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if sub == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Subscription not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription retrieved", toSubscriptionResponse(sub)))
}

// UpdateSubscription applies a partial update to a subscription row.
func (c *accessController) UpdateSubscription(ctx *fiber.Ctx) error {
	var req dto.UpdateSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	update := &entity.SubscriptionUpdate{
		CurrentPeriodStart: req.CurrentPeriodStart,
		CurrentPeriodEnd:   req.CurrentPeriodEnd,
		TrialStart:         req.TrialStart,
		TrialEnd:           req.TrialEnd,
		MaxVaults:          req.MaxVaults,
		MaxGenerations:     req.MaxGenerations,
		MaxStorageMB:       req.MaxStorageMB,
		MaxTeamMembers:     req.MaxTeamMembers,
	}
	if req.Tier != nil {
		tier := entity.SubscriptionTier(*req.Tier)
		switch tier {
		case entity.TierFree, entity.TierPro, entity.TierEnterprise:
			update.Tier = &tier
		default:
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Unknown tier"))
		}
	}
	if req.Status != nil {
		status := entity.SubscriptionStatus(*req.Status)
		switch status {
		case entity.SubscriptionStatusActive, entity.SubscriptionStatusPastDue,
			entity.SubscriptionStatusCanceled, entity.SubscriptionStatusIncomplete:
			update.Status = &status
		default:
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Unknown status"))
		}
	}

	sub, err := c.subscriptionService.UpdateSubscription(ctx.Context(), ctx.Params("userId"), update)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Subscription not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription updated", toSubscriptionResponse(sub)))
}

func toSubscriptionResponse(sub *entity.Subscription) dto.SubscriptionResponse {
	return dto.SubscriptionResponse{
		Id:                 sub.Id,
		UserId:             sub.UserId,
		Tier:               string(sub.Tier),
		Status:             string(sub.Status),
		CurrentPeriodStart: sub.CurrentPeriodStart,
		CurrentPeriodEnd:   sub.CurrentPeriodEnd,
		TrialStart:         sub.TrialStart,
		TrialEnd:           sub.TrialEnd,
		MaxVaults:          sub.MaxVaults,
		MaxGenerations:     sub.MaxGenerations,
		MaxStorageMB:       sub.MaxStorageMB,
		MaxTeamMembers:     sub.MaxTeamMembers,
	}
}
