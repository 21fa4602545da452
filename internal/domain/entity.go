package domain

// EntityType tags a kind of business entity.
type EntityType string

const (
	EntityTypeCountry            EntityType = "country"
	EntityTypeSafeguardMechanism EntityType = "safeguard_mechanism"
	EntityTypeAsset              EntityType = "asset"
	EntityTypeActivity           EntityType = "activity"
)

// EntityRef identifies one entity instance within its tenant.
type EntityRef struct {
	TenantID string
	Type     EntityType
	ID       string
}

// Entity is implemented by every persisted business entity.
type Entity interface {
	EntityRef() EntityRef
}

// RiskLevel classifies compliance risk.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "LOW"
	RiskLevelMedium RiskLevel = "MEDIUM"
	RiskLevelHigh   RiskLevel = "HIGH"
)

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh:
		return true
	}
	return false
}
