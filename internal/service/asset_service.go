package service

import (
	"context"
	"strings"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/tracking"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// AssetService manages asset-location records.
type AssetService struct {
	assets *tracking.Tracked[*domain.Asset]
}

// AssetInput is the writable state of an asset.
type AssetInput struct {
	Name                 string
	Description          string
	HostingProvider      string
	CountryID            string
	SafeguardMechanismID *string
	ContainsPersonalData bool
	RiskLevel            domain.RiskLevel
	Metadata             map[string]any
	IsActive             *bool
}

// NewAssetService constructs the service.
func NewAssetService(assets *tracking.Tracked[*domain.Asset]) *AssetService {
	return &AssetService{assets: assets}
}

// Create stores a new asset.
func (s *AssetService) Create(ctx context.Context, tenantID string, input AssetInput, caller domain.CallerContext) (*domain.Asset, error) {
	asset := &domain.Asset{TenantID: tenantID, IsActive: true}
	if err := applyAsset(asset, input); err != nil {
		return nil, err
	}
	if err := s.assets.Create(ctx, asset, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

// Update replaces the writable state of an asset. Deactivating an asset is
// a soft delete.
func (s *AssetService) Update(ctx context.Context, tenantID, id string, input AssetInput, caller domain.CallerContext) (*domain.Asset, error) {
	asset, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applyAsset(asset, input); err != nil {
		return nil, err
	}
	if err := s.assets.Update(ctx, asset, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

// Get loads an asset of the tenant.
func (s *AssetService) Get(ctx context.Context, tenantID, id string) (*domain.Asset, error) {
	if err := requireID("asset", id); err != nil {
		return nil, err
	}
	asset, err := s.assets.Get(ctx, tenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

func applyAsset(a *domain.Asset, input AssetInput) error {
	name, err := requireText("name", input.Name)
	if err != nil {
		return err
	}
	if err := requireRef("countryId", input.CountryID); err != nil {
		return err
	}
	var safeguardID *string
	if input.SafeguardMechanismID != nil && strings.TrimSpace(*input.SafeguardMechanismID) != "" {
		if err := requireRef("safeguardMechanismId", *input.SafeguardMechanismID); err != nil {
			return err
		}
		id := strings.TrimSpace(*input.SafeguardMechanismID)
		safeguardID = &id
	}
	risk := input.RiskLevel
	if risk == "" {
		risk = domain.RiskLevelLow
	}
	if !risk.Valid() {
		return apperrors.NewValidationError("riskLevel must be LOW, MEDIUM or HIGH", map[string]any{"field": "riskLevel"})
	}

	a.Name = name
	a.Description = strings.TrimSpace(input.Description)
	a.HostingProvider = strings.TrimSpace(input.HostingProvider)
	a.CountryID = input.CountryID
	a.SafeguardMechanismID = safeguardID
	a.ContainsPersonalData = input.ContainsPersonalData
	a.RiskLevel = risk
	a.Metadata = input.Metadata
	a.IsActive = boolOr(input.IsActive, a.IsActive)
	return nil
}
