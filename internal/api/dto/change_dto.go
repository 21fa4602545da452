package dto

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// ChangeRecordResponse is one audit trail entry. change_kind is the stored
// kind; kind additionally reports soft deletes as DELETED.
type ChangeRecordResponse struct {
	ID             string             `json:"id"`
	EntityType     domain.EntityType  `json:"entity_type"`
	EntityID       string             `json:"entity_id"`
	ChangeKind     domain.ChangeKind  `json:"change_kind"`
	Kind           domain.LogicalKind `json:"kind"`
	ChangedField   *string            `json:"changed_field"`
	BeforeSnapshot domain.Snapshot    `json:"before_snapshot"`
	AfterSnapshot  domain.Snapshot    `json:"after_snapshot"`
	ActorID        *string            `json:"actor_id"`
	Reason         *string            `json:"reason"`
	OccurredAt     time.Time          `json:"occurred_at"`
}

// WatermarkResponse reports the latest committed change time of the tenant.
type WatermarkResponse struct {
	LatestOccurredAt *time.Time `json:"latest_occurred_at"`
}
