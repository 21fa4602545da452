package service

import (
	"context"
	"strings"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/tracking"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// SafeguardService manages transfer safeguard mechanisms.
type SafeguardService struct {
	safeguards *tracking.Tracked[*domain.SafeguardMechanism]
}

// SafeguardInput is the writable state of a safeguard mechanism.
type SafeguardInput struct {
	Name        string
	Code        string
	Description string
	IsActive    *bool
}

// NewSafeguardService constructs the service.
func NewSafeguardService(safeguards *tracking.Tracked[*domain.SafeguardMechanism]) *SafeguardService {
	return &SafeguardService{safeguards: safeguards}
}

// Create stores a new safeguard mechanism.
func (s *SafeguardService) Create(ctx context.Context, tenantID string, input SafeguardInput, caller domain.CallerContext) (*domain.SafeguardMechanism, error) {
	sg := &domain.SafeguardMechanism{TenantID: tenantID, IsActive: true}
	if err := applySafeguard(sg, input); err != nil {
		return nil, err
	}
	if err := s.safeguards.Create(ctx, sg, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sg, nil
}

// Update replaces the writable state of a safeguard mechanism.
func (s *SafeguardService) Update(ctx context.Context, tenantID, id string, input SafeguardInput, caller domain.CallerContext) (*domain.SafeguardMechanism, error) {
	sg, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := applySafeguard(sg, input); err != nil {
		return nil, err
	}
	if err := s.safeguards.Update(ctx, sg, caller); err != nil {
		return nil, apperrors.MapError(err)
	}
	return sg, nil
}

// Get loads a safeguard mechanism of the tenant.
func (s *SafeguardService) Get(ctx context.Context, tenantID, id string) (*domain.SafeguardMechanism, error) {
	if err := requireID("safeguard mechanism", id); err != nil {
		return nil, err
	}
	sg, err := s.safeguards.Get(ctx, tenantID, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return sg, nil
}

func applySafeguard(sg *domain.SafeguardMechanism, input SafeguardInput) error {
	name, err := requireText("name", input.Name)
	if err != nil {
		return err
	}
	code, err := requireText("code", input.Code)
	if err != nil {
		return err
	}
	sg.Name = name
	sg.Code = strings.ToUpper(code)
	sg.Description = strings.TrimSpace(input.Description)
	sg.IsActive = boolOr(input.IsActive, sg.IsActive)
	return nil
}
