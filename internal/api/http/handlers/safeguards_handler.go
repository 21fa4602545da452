package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// SafeguardsHandler manages safeguard mechanism endpoints.
type SafeguardsHandler struct {
	service *service.SafeguardService
}

// NewSafeguardsHandler constructs handler.
func NewSafeguardsHandler(safeguardService *service.SafeguardService) *SafeguardsHandler {
	return &SafeguardsHandler{service: safeguardService}
}

// Create POST /v1/safeguards.
func (h *SafeguardsHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SafeguardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sg, err := h.service.Create(c.UserContext(), principal.TenantID, safeguardInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": safeguardResponse(sg)})
}

// Update PUT /v1/safeguards/:id.
func (h *SafeguardsHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.SafeguardRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	sg, err := h.service.Update(c.UserContext(), principal.TenantID, c.Params("id"), safeguardInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": safeguardResponse(sg)})
}

// Get GET /v1/safeguards/:id.
func (h *SafeguardsHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	sg, err := h.service.Get(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": safeguardResponse(sg)})
}

func safeguardInput(req dto.SafeguardRequest) service.SafeguardInput {
	return service.SafeguardInput{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		IsActive:    req.IsActive,
	}
}

func safeguardResponse(s *domain.SafeguardMechanism) dto.SafeguardResponse {
	return dto.SafeguardResponse{
		ID:          s.ID,
		Name:        s.Name,
		Code:        s.Code,
		Description: s.Description,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
