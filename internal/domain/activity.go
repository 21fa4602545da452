package domain

import "time"

// LegalBasis is the lawful basis a processing activity relies on.
type LegalBasis string

const (
	LegalBasisConsent            LegalBasis = "CONSENT"
	LegalBasisContract           LegalBasis = "CONTRACT"
	LegalBasisLegalObligation    LegalBasis = "LEGAL_OBLIGATION"
	LegalBasisVitalInterests     LegalBasis = "VITAL_INTERESTS"
	LegalBasisPublicTask         LegalBasis = "PUBLIC_TASK"
	LegalBasisLegitimateInterest LegalBasis = "LEGITIMATE_INTEREST"
)

// Valid reports whether b is a known legal basis.
func (b LegalBasis) Valid() bool {
	switch b {
	case LegalBasisConsent, LegalBasisContract, LegalBasisLegalObligation,
		LegalBasisVitalInterests, LegalBasisPublicTask, LegalBasisLegitimateInterest:
		return true
	}
	return false
}

// Activity is a processing activity performed on an asset.
type Activity struct {
	ID                          string
	TenantID                    string
	Name                        string     `audit:"name"`
	Purpose                     string     `audit:"purpose"`
	AssetID                     string     `audit:"assetId"`
	LegalBasis                  LegalBasis `audit:"legalBasis"`
	RiskLevel                   RiskLevel  `audit:"riskLevel"`
	ContainsSpecialCategoryData bool       `audit:"containsSpecialCategoryData"`
	Notes                       string     `audit:"notes"`
	IsActive                    bool       `audit:"isActive"`
	CreatedAt                   time.Time
	UpdatedAt                   time.Time
}

// EntityRef implements Entity.
func (a *Activity) EntityRef() EntityRef {
	return EntityRef{TenantID: a.TenantID, Type: EntityTypeActivity, ID: a.ID}
}
