package service

import (
	"context"
	"strings"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/tracking"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// CountryService manages country reference data.
type CountryService struct {
	countries *tracking.Tracked[*domain.Country]
}

// CountryInput is the writable state of a country. A nil IsActive keeps the
// stored value on update and defaults to true on create.
type CountryInput struct {
	Name                string
	Code                string
	IsEUEEA             bool
	HasAdequacyDecision bool
	IsActive            *bool
}

// NewCountryService constructs the service.
func NewCountryService(countries *tracking.Tracked[*domain.Country]) *CountryService {
	return &CountryService{countries: countries}
}

// Create stores a new country.
func (s *CountryService) Create(ctx context.Context, tenantID string, input CountryInput, caller domain.CallerContext) (*domain.Country, error) {
	country := &domain.Country{TenantID: tenantID, IsActive: true}
	if err := applyCountry(country, input); err != nil {
		return nil, err
	}
	if err := s.countries.Create(ctx, country, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return country, nil
}

// Update replaces the writable state of a country.
func (s *CountryService) Update(ctx context.Context, tenantID, id string, input CountryInput, caller domain.CallerContext) (*domain.Country, error) {
	country, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applyCountry(country, input); err != nil {
		return nil, err
	}
	if err := s.countries.Update(ctx, country, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return country, nil
}

// Get loads a country of the tenant.
func (s *CountryService) Get(ctx context.Context, tenantID, id string) (*domain.Country, error) {
	if err := requireID("country", id); err != nil {
		return nil, err
	}
	country, err := s.countries.Get(ctx, tenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return country, nil
}

func applyCountry(c *domain.Country, input CountryInput) error {
	name, err := requireText("name", input.Name)
	if err != nil {
		return err
	}
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if len(code) != 2 {
		return apperrors.NewValidationError("code must be a two-letter ISO 3166-1 code", map[string]any{"field": "code"})
	}
	c.Name = name
	c.Code = code
	c.IsEUEEA = input.IsEUEEA
	c.HasAdequacyDecision = input.HasAdequacyDecision
	c.IsActive = boolOr(input.IsActive, c.IsActive)
	return nil
}
