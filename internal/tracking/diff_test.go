package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func TestDiffIndependentUnitsInFieldOrder(t *testing.T) {
	before := domain.Snapshot{
		"name":      domain.Scalar("CRM"),
		"riskLevel": domain.Scalar("LOW"),
		"isActive":  domain.Scalar(true),
		"countryId": domain.Reference(domain.EntityTypeCountry, "c-1", map[string]any{"code": "DE"}),
	}
	after := domain.Snapshot{
		"name":      domain.Scalar("CRM"),
		"riskLevel": domain.Scalar("HIGH"),
		"isActive":  domain.Scalar(false),
		"countryId": domain.Reference(domain.EntityTypeCountry, "c-2", nil),
	}

	units := Diff([]string{"isActive", "name", "countryId", "riskLevel"}, before, after)

	if assert.Len(t, units, 3) {
		assert.Equal(t, "isActive", units[0].Field)
		assert.Equal(t, "countryId", units[1].Field)
		assert.Equal(t, "riskLevel", units[2].Field)
		assert.Equal(t, domain.Scalar("LOW"), units[2].Before)
		assert.Equal(t, domain.Scalar("HIGH"), units[2].After)
	}
}

func TestDiffIgnoresUnlistedFields(t *testing.T) {
	before := domain.Snapshot{"description": domain.Scalar("a"), "name": domain.Scalar("x")}
	after := domain.Snapshot{"description": domain.Scalar("b"), "name": domain.Scalar("x")}

	assert.Empty(t, Diff([]string{"name"}, before, after))
}

func TestDiffReferenceAttributesAreDescriptive(t *testing.T) {
	before := domain.Snapshot{"countryId": domain.Reference(domain.EntityTypeCountry, "c-1", nil)}
	after := domain.Snapshot{"countryId": domain.Reference(domain.EntityTypeCountry, "c-1", map[string]any{"name": "Germany"})}

	assert.Empty(t, Diff([]string{"countryId"}, before, after))
}

func TestDiffMissingFieldCountsAsChange(t *testing.T) {
	before := domain.Snapshot{}
	after := domain.Snapshot{"name": domain.Scalar(nil)}

	units := Diff([]string{"name"}, before, after)
	assert.Len(t, units, 1)
}
