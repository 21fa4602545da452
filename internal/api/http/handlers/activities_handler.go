package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// ActivitiesHandler manages processing activity endpoints.
type ActivitiesHandler struct {
	service *service.ActivityService
}

// NewActivitiesHandler constructs handler.
func NewActivitiesHandler(activityService *service.ActivityService) *ActivitiesHandler {
	return &ActivitiesHandler{service: activityService}
}

// Create POST /v1/activities.
func (h *ActivitiesHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	activity, err := h.service.Create(c.UserContext(), principal.TenantID, activityInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": activityResponse(activity)})
}

// Update PUT /v1/activities/:id.
func (h *ActivitiesHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ActivityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	activity, err := h.service.Update(c.UserContext(), principal.TenantID, c.Params("id"), activityInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": activityResponse(activity)})
}

// Get GET /v1/activities/:id.
func (h *ActivitiesHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	activity, err := h.service.Get(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": activityResponse(activity)})
}

func activityInput(req dto.ActivityRequest) service.ActivityInput {
	return service.ActivityInput{
		Name:                        req.Name,
		Purpose:                     req.Purpose,
		AssetID:                     req.AssetID,
		LegalBasis:                  req.LegalBasis,
		RiskLevel:                   req.RiskLevel,
		ContainsSpecialCategoryData: req.ContainsSpecialCategoryData,
		Notes:                       req.Notes,
		IsActive:                    req.IsActive,
	}
}

func activityResponse(a *domain.Activity) dto.ActivityResponse {
	return dto.ActivityResponse{
		ID:                          a.ID,
		Name:                        a.Name,
		Purpose:                     a.Purpose,
		AssetID:                     a.AssetID,
		LegalBasis:                  a.LegalBasis,
		RiskLevel:                   a.RiskLevel,
		ContainsSpecialCategoryData: a.ContainsSpecialCategoryData,
		Notes:                       a.Notes,
		IsActive:                    a.IsActive,
		CreatedAt:                   a.CreatedAt,
		UpdatedAt:                   a.UpdatedAt,
	}
}
