package domain

import "time"

// SafeguardMechanism is a transfer safeguard such as standard contractual clauses.
type SafeguardMechanism struct {
	ID          string
	TenantID    string
	Name        string `audit:"name"`
	Code        string `audit:"code"`
	Description string `audit:"description"`
	IsActive    bool   `audit:"isActive"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// EntityRef implements Entity.
func (s *SafeguardMechanism) EntityRef() EntityRef {
	return EntityRef{TenantID: s.TenantID, Type: EntityTypeSafeguardMechanism, ID: s.ID}
}
