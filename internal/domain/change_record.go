package domain

import "time"

// ChangeKind is the persisted classification of a change record.
type ChangeKind string

const (
	ChangeKindCreated  ChangeKind = "CREATED"
	ChangeKindUpdated  ChangeKind = "UPDATED"
	ChangeKindRestored ChangeKind = "RESTORED"
)

// LogicalKind is the reader-facing classification; DELETED is stored as an
// UPDATED record that switches the active flag off.
type LogicalKind string

const (
	LogicalKindCreated  LogicalKind = "CREATED"
	LogicalKindUpdated  LogicalKind = "UPDATED"
	LogicalKindRestored LogicalKind = "RESTORED"
	LogicalKindDeleted  LogicalKind = "DELETED"
)

// ChangeRecord is an immutable audit trail entry.
type ChangeRecord struct {
	ID             string
	TenantID       string
	EntityType     EntityType
	EntityID       string
	ChangeKind     ChangeKind
	ChangedField   *string
	BeforeSnapshot Snapshot
	AfterSnapshot  Snapshot
	ActorID        *string
	Reason         *string
	OccurredAt     time.Time

	// Seq is the storage insertion order; it breaks occurredAt ties between
	// entities when paging.
	Seq int64
}

// Cursor returns the paging position just after this record.
func (r ChangeRecord) Cursor() ChangeCursor {
	return ChangeCursor{OccurredAt: r.OccurredAt, Seq: r.Seq}
}

// Ref returns the entity the record belongs to.
func (r ChangeRecord) Ref() EntityRef {
	return EntityRef{TenantID: r.TenantID, Type: r.EntityType, ID: r.EntityID}
}

// FieldBefore returns the changed field's value in the before snapshot.
func (r ChangeRecord) FieldBefore() (Value, bool) {
	if r.ChangedField == nil {
		return Value{}, false
	}
	return r.BeforeSnapshot.Field(*r.ChangedField)
}

// FieldAfter returns the changed field's value in the after snapshot.
func (r ChangeRecord) FieldAfter() (Value, bool) {
	if r.ChangedField == nil {
		return Value{}, false
	}
	return r.AfterSnapshot.Field(*r.ChangedField)
}

// CallerContext is optional caller metadata stored verbatim on produced records.
type CallerContext struct {
	ActorID *string
	Reason  *string
}

// ChangeFilter scopes a read of the audit trail. TenantID is mandatory.
type ChangeFilter struct {
	TenantID   string
	EntityType *EntityType
	EntityID   *string
	Since      *time.Time

	// After resumes a read strictly past a previously returned record.
	After *ChangeCursor
	Limit int
}
