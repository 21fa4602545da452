package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// AssetsHandler manages asset endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// Create POST /v1/assets.
func (h *AssetsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	asset, err := h.service.Create(c.UserContext(), principal.TenantID, assetInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": assetResponse(asset)})
}

// Update PUT /v1/assets/:id.
func (h *AssetsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	asset, err := h.service.Update(c.UserContext(), principal.TenantID, c.Params("id"), assetInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assetResponse(asset)})
}

// Get GET /v1/assets/:id.
func (h *AssetsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	asset, err := h.service.Get(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assetResponse(asset)})
}

func assetInput(req dto.AssetRequest) service.AssetInput {
	return service.AssetInput{
		Name:                 req.Name,
		Description:          req.Description,
		HostingProvider:      req.HostingProvider,
		CountryID:            req.CountryID,
		SafeguardMechanismID: req.SafeguardMechanismID,
		ContainsPersonalData: req.ContainsPersonalData,
		RiskLevel:            req.RiskLevel,
		Metadata:             req.Metadata,
		IsActive:             req.IsActive,
	}
}

func assetResponse(a *domain.Asset) dto.AssetResponse {
	return dto.AssetResponse{
		ID:                   a.ID,
		Name:                 a.Name,
		Description:          a.Description,
		HostingProvider:      a.HostingProvider,
		CountryID:            a.CountryID,
		SafeguardMechanismID: a.SafeguardMechanismID,
		ContainsPersonalData: a.ContainsPersonalData,
		RiskLevel:            a.RiskLevel,
		Metadata:             a.Metadata,
		IsActive:             a.IsActive,
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
}
