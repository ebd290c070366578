// FILE: internal/controller/feature_flag_controller.go
// Controller for flag evaluation and flag administration endpoints
package controller

import (
	"vauntico-access-be/internal/dto"
	"vauntico-access-be/internal/entity"
	"vauntico-access-be/internal/pkg/serverutils"
	"vauntico-access-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type FeatureFlagController interface {
	RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler)
}

type featureFlagController struct {
	flagService service.IFeatureFlagService
}

func NewFeatureFlagController(flagService service.IFeatureFlagService) FeatureFlagController {
	return &featureFlagController{
		flagService: flagService,
	}
}

func (c *featureFlagController) RegisterRoutes(api fiber.Router, jwtMiddleware fiber.Handler) {
	// Evaluation endpoint for authenticated callers
	api.Get("/flags/:key/enabled", jwtMiddleware, c.IsEnabled)

	// Administration endpoints
	admin := api.Group("/admin/flags", jwtMiddleware)
	admin.Get("/", c.ListFlags)
	admin.Get("/:key", c.GetFlag)
	admin.Put("/:key", c.SetFlag)
	admin.Patch("/:key", c.UpdateFlag)
	admin.Delete("/:key", c.DeleteFlag)
	admin.Post("/emergency-disable", c.EmergencyDisableAll)
}

// IsEnabled evaluates a flag against the authenticated caller
// @Summary Evaluate a feature flag
// @Tags Flags
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.FlagEnabledResponse
// @Router /api/flags/{key}/enabled [get]
func (c *featureFlagController) IsEnabled(ctx *fiber.Ctx) error {
	key := ctx.Params("key")
	userId, _ := ctx.Locals("user_id").(string)
	email, _ := ctx.Locals("email").(string)

	enabled := c.flagService.IsEnabled(ctx.Context(), key, &entity.EvaluationContext{
		FlagKey:   key,
		UserId:    userId,
		UserEmail: email,
		Attributes: map[string]string{
			"ip":     ctx.IP(),
			"path":   ctx.Path(),
			"method": ctx.Method(),
		},
	})

	return ctx.JSON(serverutils.SuccessResponse("Flag evaluated", dto.FlagEnabledResponse{
		Key:     key,
		Enabled: enabled,
	}))
}

func (c *featureFlagController) ListFlags(ctx *fiber.Ctx) error {
	flagList, err := c.flagService.ListFlags(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	responses := make([]dto.FlagResponse, 0, len(flagList))
	for _, flag := range flagList {
		responses = append(responses, toFlagResponse(flag))
	}
	return ctx.JSON(serverutils.SuccessResponse("Flags retrieved", responses))
}

func (c *featureFlagController) GetFlag(ctx *fiber.Ctx) error {
	flag, err := c.flagService.GetFlag(ctx.Context(), ctx.Params("key"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if flag == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Flag not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Flag retrieved", toFlagResponse(flag)))
}

// SetFlag stores the full definition for a key (create or replace).
func (c *featureFlagController) SetFlag(ctx *fiber.Ctx) error {
	var req dto.CreateFlagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	key := ctx.Params("key")
	if req.Key != "" && req.Key != key {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Key in body does not match path"))
	}
	if !validFlagType(req.Type) {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Unknown flag type"))
	}
	if req.Percentage < 0 || req.Percentage > 100 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Percentage must be between 0 and 100"))
	}

	flag := &entity.FeatureFlag{
		Key:          key,
		Description:  req.Description,
		Type:         entity.FlagType(req.Type),
		Enabled:      req.Enabled,
		Percentage:   req.Percentage,
		UserIds:      req.UserIds,
		Environments: req.Environments,
	}
	if err := c.flagService.SetFlag(ctx.Context(), flag); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Flag saved", toFlagResponse(flag)))
}

// UpdateFlag patches an existing definition; omitted fields keep their value.
func (c *featureFlagController) UpdateFlag(ctx *fiber.Ctx) error {
	var req dto.UpdateFlagRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	key := ctx.Params("key")
	flag, err := c.flagService.GetFlag(ctx.Context(), key)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	if flag == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Flag not found"))
	}

	if req.Description != nil {
		flag.Description = *req.Description
	}
	if req.Enabled != nil {
		flag.Enabled = *req.Enabled
	}
	if req.Percentage != nil {
		if *req.Percentage < 0 || *req.Percentage > 100 {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Percentage must be between 0 and 100"))
		}
		flag.Percentage = *req.Percentage
	}
	if req.UserIds != nil {
		flag.UserIds = *req.UserIds
	}
	if req.Environments != nil {
		flag.Environments = *req.Environments
	}

	if err := c.flagService.SetFlag(ctx.Context(), flag); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Flag updated", toFlagResponse(flag)))
}

func (c *featureFlagController) DeleteFlag(ctx *fiber.Ctx) error {
	if err := c.flagService.DeleteFlag(ctx.Context(), ctx.Params("key")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Flag deleted", nil))
}

// EmergencyDisableAll turns off every flag in one sweep.
func (c *featureFlagController) EmergencyDisableAll(ctx *fiber.Ctx) error {
	if err := c.flagService.EmergencyDisableAll(ctx.Context()); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("All flags disabled", nil))
}

func toFlagResponse(flag *entity.FeatureFlag) dto.FlagResponse {
	return dto.FlagResponse{
		Id:           flag.Id,
		Key:          flag.Key,
		Description:  flag.Description,
		Type:         string(flag.Type),
		Enabled:      flag.Enabled,
		Percentage:   flag.Percentage,
		UserIds:      flag.UserIds,
		Environments: flag.Environments,
		CreatedAt:    flag.CreatedAt,
		UpdatedAt:    flag.UpdatedAt,
	}
}

func validFlagType(t string) bool {
	switch entity.FlagType(t) {
	case entity.FlagTypeBoolean, entity.FlagTypePercentage, entity.FlagTypeUserTargeting, entity.FlagTypeEnvironment:
		return true
	}
	return false
}
