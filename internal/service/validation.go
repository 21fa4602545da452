package service

import (
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

// requireID rejects ids that cannot exist so they surface as NOT_FOUND rather
// than a malformed-uuid database error.
func requireID(resource, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return nil
}

// requireRef validates a foreign key supplied in a request body.
func requireRef(field, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.NewValidationError(field+" must be a uuid", map[string]any{"field": field})
	}
	return nil
}

// canonicalTenant renders uuid tenant ids the way postgres reads them back.
// Other values pass through trimmed.
func canonicalTenant(tenantID string) string {
	trimmed := strings.TrimSpace(tenantID)
	if id, err := uuid.Parse(trimmed); err == nil {
		return id.String()
	}
	return trimmed
}

func requireText(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
	}
	return trimmed, nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
