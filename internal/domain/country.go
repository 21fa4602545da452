package domain

import "time"

// Country is shared reference data describing a jurisdiction.
type Country struct {
	ID                  string
	TenantID            string
	Name                string `audit:"name"`
	Code                string `audit:"code"`
	IsEUEEA             bool   `audit:"isEuEea"`
	HasAdequacyDecision bool   `audit:"hasAdequacyDecision"`
	IsActive            bool   `audit:"isActive"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EntityRef implements Entity.
func (c *Country) EntityRef() EntityRef {
	return EntityRef{TenantID: c.TenantID, Type: EntityTypeCountry, ID: c.ID}
}
