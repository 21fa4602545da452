package service

import (
	"context"
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	"github.com/spec-kit/compliance-service/internal/tracking"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

const maxChangeLimit = 1000

// ChangeReader reads the stored audit trail.
type ChangeReader interface {
	List(ctx context.Context, db persistence.DBTX, filter domain.ChangeFilter) ([]domain.ChangeRecord, error)
}

// WatermarkReader returns the latest committed change time of a tenant.
type WatermarkReader interface {
	Watermark(ctx context.Context, tenantID string) (time.Time, bool, error)
}

// ChangeEntry is a stored record together with its reader-facing kind.
type ChangeEntry struct {
	Record domain.ChangeRecord
	Kind   domain.LogicalKind
}

// ChangeService exposes the audit trail to downstream consumers.
type ChangeService struct {
	reader     ChangeReader
	db         persistence.DBTX
	registry   *tracking.Registry
	watermarks WatermarkReader
}

// ChangeDependencies bundles collaborators for the change service.
type ChangeDependencies struct {
	Reader     ChangeReader
	DB         persistence.DBTX
	Registry   *tracking.Registry
	Watermarks WatermarkReader
}

// NewChangeService constructs the service.
func NewChangeService(deps ChangeDependencies) *ChangeService {
	registry := deps.Registry
	if registry == nil {
		registry = tracking.DefaultRegistry()
	}
	return &ChangeService{
		reader:     deps.Reader,
		db:         deps.DB,
		registry:   registry,
		watermarks: deps.Watermarks,
	}
}

// List returns the tenant's records matching filter in ascending occurredAt order.
func (s *ChangeService) List(ctx context.Context, filter domain.ChangeFilter) ([]ChangeEntry, error) {
	filter.TenantID = canonicalTenant(filter.TenantID)
	if filter.TenantID == "" {
		return nil, apperrors.NewUnauthorized("tenant required")
	}
	if filter.EntityType != nil {
		if _, ok := s.registry.Spec(*filter.EntityType); !ok {
			return nil, apperrors.NewValidationError("entity_type is not tracked", map[string]any{"entity_type": *filter.EntityType})
		}
	}
	if filter.Limit < 0 || filter.Limit > maxChangeLimit {
		return nil, apperrors.NewValidationError("limit out of range", map[string]any{"max": maxChangeLimit})
	}

	records, err := s.reader.List(ctx, s.db, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	entries := make([]ChangeEntry, 0, len(records))
	for _, rec := range records {
		if rec.TenantID != filter.TenantID {
			continue
		}
		entries = append(entries, ChangeEntry{Record: rec, Kind: tracking.LogicalKind(s.registry, rec)})
	}
	return entries, nil
}

// Watermark returns the latest committed change time of the tenant. ok is
// false when none has been observed.
func (s *ChangeService) Watermark(ctx context.Context, tenantID string) (time.Time, bool, error) {
	tenantID = canonicalTenant(tenantID)
	if tenantID == "" {
		return time.Time{}, false, apperrors.NewUnauthorized("tenant required")
	}
	if s.watermarks == nil {
		return time.Time{}, false, nil
	}
	at, ok, err := s.watermarks.Watermark(ctx, tenantID)
	if err != nil {
		return time.Time{}, false, apperrors.MapError(err)
	}
	return at, ok, nil
}
