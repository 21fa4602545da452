package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// Mutation bodies carry an optional reason that is stored on the change
// records the call produces.

// CountryRequest payload for create and update.
type CountryRequest struct {
	Name                string  `json:"name"`
	Code                string  `json:"code"`
	IsEUEEA             bool    `json:"is_eu_eea"`
	HasAdequacyDecision bool    `json:"has_adequacy_decision"`
	IsActive            *bool   `json:"is_active"`
	Reason              *string `json:"reason"`
}

// CountryResponse representation.
type CountryResponse struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Code                string    `json:"code"`
	IsEUEEA             bool      `json:"is_eu_eea"`
	HasAdequacyDecision bool      `json:"has_adequacy_decision"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// SafeguardRequest payload for create and update.
type SafeguardRequest struct {
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Description string  `json:"description"`
	IsActive    *bool   `json:"is_active"`
	Reason      *string `json:"reason"`
}

// SafeguardResponse representation.
type SafeguardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AssetRequest payload for create and update.
type AssetRequest struct {
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	HostingProvider      string           `json:"hosting_provider"`
	CountryID            string           `json:"country_id"`
	SafeguardMechanismID *string          `json:"safeguard_mechanism_id"`
	ContainsPersonalData bool             `json:"contains_personal_data"`
	RiskLevel            domain.RiskLevel `json:"risk_level"`
	Metadata             map[string]any   `json:"metadata"`
	IsActive             *bool            `json:"is_active"`
	Reason               *string          `json:"reason"`
}

// AssetResponse representation.
type AssetResponse struct {
	ID                   string           `json:"id"`
	Name                 string           `json:"name"`
	Description          string           `json:"description"`
	HostingProvider      string           `json:"hosting_provider"`
	CountryID            string           `json:"country_id"`
	SafeguardMechanismID *string          `json:"safeguard_mechanism_id"`
	ContainsPersonalData bool             `json:"contains_personal_data"`
	RiskLevel            domain.RiskLevel `json:"risk_level"`
	Metadata             map[string]any   `json:"metadata"`
	IsActive             bool             `json:"is_active"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// ActivityRequest payload for create and update.
type ActivityRequest struct {
	Name                        string            `json:"name"`
	Purpose                     string            `json:"purpose"`
	AssetID                     string            `json:"asset_id"`
	LegalBasis                  domain.LegalBasis `json:"legal_basis"`
	RiskLevel                   domain.RiskLevel  `json:"risk_level"`
	ContainsSpecialCategoryData bool              `json:"contains_special_category_data"`
	Notes                       string            `json:"notes"`
	IsActive                    *bool             `json:"is_active"`
	Reason                      *string           `json:"reason"`
}

// ActivityResponse representation.
type ActivityResponse struct {
	ID                          string            `json:"id"`
	Name                        string            `json:"name"`
	Purpose                     string            `json:"purpose"`
	AssetID                     string            `json:"asset_id"`
	LegalBasis                  domain.LegalBasis `json:"legal_basis"`
	RiskLevel                   domain.RiskLevel  `json:"risk_level"`
	ContainsSpecialCategoryData bool              `json:"contains_special_category_data"`
	Notes                       string            `json:"notes"`
	IsActive                    bool              `json:"is_active"`
	CreatedAt                   time.Time         `json:"created_at"`
	UpdatedAt                   time.Time         `json:"updated_at"`
}
