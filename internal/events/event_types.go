package events

import (
	"time"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	// EventChangesCommitted fires after a tracked mutation and its change
	// records have committed.
	EventChangesCommitted EventType = "changes_committed"
)

// Event represents an in-process notification emitted after commit.
type Event struct {
	ID         string            `json:"id"`
	Type       EventType         `json:"type"`
	TenantID   string            `json:"tenant_id"`
	EntityType domain.EntityType `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Payload    interface{}       `json:"payload"`
}

// ChangesCommittedPayload payload.
type ChangesCommittedPayload struct {
	RecordIDs        []string            `json:"record_ids"`
	Kinds            []domain.ChangeKind `json:"kinds"`
	LatestOccurredAt time.Time           `json:"latest_occurred_at"`
}
