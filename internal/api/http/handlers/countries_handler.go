package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/compliance-service/internal/api/dto"
	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/service"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// CountriesHandler manages country endpoints.
type CountriesHandler struct {
	service *service.CountryService
}

// NewCountriesHandler constructs handler.
func NewCountriesHandler(countryService *service.CountryService) *CountriesHandler {
	return &CountriesHandler{service: countryService}
}

// Create POST /v1/countries.
func (h *CountriesHandler) Create(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CountryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	country, err := h.service.Create(c.UserContext(), principal.TenantID, countryInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": countryResponse(country)})
}

// Update PUT /v1/countries/:id.
func (h *CountriesHandler) Update(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CountryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	country, err := h.service.Update(c.UserContext(), principal.TenantID, c.Params("id"), countryInput(req), callerContext(c, principal, req.Reason))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": countryResponse(country)})
}

// Get GET /v1/countries/:id.
func (h *CountriesHandler) Get(c *fiber.Ctx) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}
	country, err := h.service.Get(c.UserContext(), principal.TenantID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": countryResponse(country)})
}

func countryInput(req dto.CountryRequest) service.CountryInput {
	return service.CountryInput{
		Name:                req.Name,
		Code:                req.Code,
		IsEUEEA:             req.IsEUEEA,
		HasAdequacyDecision: req.HasAdequacyDecision,
		IsActive:            req.IsActive,
	}
}

func countryResponse(c *domain.Country) dto.CountryResponse {
	return dto.CountryResponse{
		ID:                  c.ID,
		Name:                c.Name,
		Code:                c.Code,
		IsEUEEA:             c.IsEUEEA,
		HasAdequacyDecision: c.HasAdequacyDecision,
		IsActive:            c.IsActive,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
}
