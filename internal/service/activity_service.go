package service

import (
	"context"
	"strings"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/tracking"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// ActivityService manages processing activity records.
type ActivityService struct {
	activities *tracking.Tracked[*domain.Activity]
}

// ActivityInput is the writable state of a processing activity.
type ActivityInput struct {
	Name                        string
	Purpose                     string
	AssetID                     string
	LegalBasis                  domain.LegalBasis
	RiskLevel                   domain.RiskLevel
	ContainsSpecialCategoryData bool
	Notes                       string
	IsActive                    *bool
}

// NewActivityService constructs the service.
func NewActivityService(activities *tracking.Tracked[*domain.Activity]) *ActivityService {
	return &ActivityService{activities: activities}
}

// Create stores a new processing activity.
func (s *ActivityService) Create(ctx context.Context, tenantID string, input ActivityInput, caller domain.CallerContext) (*domain.Activity, error) {
	activity := &domain.Activity{TenantID: tenantID, IsActive: true}
	if err := applyActivity(activity, input); err != nil {
		return nil, err
	}
	if err := s.activities.Create(ctx, activity, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return activity, nil
}

// Update replaces the writable state of a processing activity.
func (s *ActivityService) Update(ctx context.Context, tenantID, id string, input ActivityInput, caller domain.CallerContext) (*domain.Activity, error) {
	activity, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applyActivity(activity, input); err != nil {
		return nil, err
	}
	if err := s.activities.Update(ctx, activity, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return activity, nil
}

// Get loads a processing activity of the tenant.
func (s *ActivityService) Get(ctx context.Context, tenantID, id string) (*domain.Activity, error) {
	if err := requireID("activity", id); err != nil {
		return nil, err
	}
	activity, err := s.activities.Get(ctx, tenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return activity, nil
}

func applyActivity(a *domain.Activity, input ActivityInput) error {
	name, err := requireText("name", input.Name)
	if err != nil {
		return err
	}
	if err := requireRef("assetId", input.AssetID); err != nil {
		return err
	}
	if !input.LegalBasis.Valid() {
		return apperrors.NewValidationError("legalBasis is not a recognised lawful basis", map[string]any{"field": "legalBasis"})
	}
	risk := input.RiskLevel
	if risk == "" {
		risk = domain.RiskLevelLow
	}
	if !risk.Valid() {
		return apperrors.NewValidationError("riskLevel must be LOW, MEDIUM or HIGH", map[string]any{"field": "riskLevel"})
	}

	a.Name = name
	a.Purpose = strings.TrimSpace(input.Purpose)
	a.AssetID = input.AssetID
	a.LegalBasis = input.LegalBasis
	a.RiskLevel = risk
	a.ContainsSpecialCategoryData = input.ContainsSpecialCategoryData
	a.Notes = strings.TrimSpace(input.Notes)
	a.IsActive = boolOr(input.IsActive, a.IsActive)
	return nil
}
