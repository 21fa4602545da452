package domain

import "time"

// Asset records where personal data is stored or processed.
type Asset struct {
	ID                   string
	TenantID             string
	Name                 string         `audit:"name"`
	Description          string         `audit:"description"`
	HostingProvider      string         `audit:"hostingProvider"`
	CountryID            string         `audit:"countryId"`
	SafeguardMechanismID *string        `audit:"safeguardMechanismId"`
	ContainsPersonalData bool           `audit:"containsPersonalData"`
	RiskLevel            RiskLevel      `audit:"riskLevel"`
	Metadata             map[string]any `audit:"metadata"`
	IsActive             bool           `audit:"isActive"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// EntityRef implements Entity.
func (a *Asset) EntityRef() EntityRef {
	return EntityRef{TenantID: a.TenantID, Type: EntityTypeAsset, ID: a.ID}
}
