package tracking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
)

// RecordStore persists change records. Implementations write through the
// handle they are given so records share the mutation's transaction.
type RecordStore interface {
	LastOccurredAt(ctx context.Context, db persistence.DBTX, ref domain.EntityRef) (time.Time, bool, error)
	Insert(ctx context.Context, db persistence.DBTX, record *domain.ChangeRecord) error
}

// Clock returns the current time.
type Clock func() time.Time

// timestampResolution matches the microsecond precision of timestamptz.
const timestampResolution = time.Microsecond

// Writer stamps and persists classified records.
type Writer struct {
	store RecordStore
	now   Clock
}

// NewWriter constructs a writer; a nil clock uses time.Now.
func NewWriter(store RecordStore, now Clock) *Writer {
	if now == nil {
		now = time.Now
	}
	return &Writer{store: store, now: now}
}

// Write assigns ids and occurredAt values and inserts the records in order.
// occurredAt is strictly increasing per entity even when the clock stalls or
// steps back.
func (w *Writer) Write(ctx context.Context, db persistence.DBTX, records []domain.ChangeRecord) ([]domain.ChangeRecord, error) {
	if len(records) == 0 {
		return nil, nil
	}
	now := w.now().UTC().Truncate(timestampResolution)
	last := make(map[domain.EntityRef]time.Time)

	out := make([]domain.ChangeRecord, len(records))
	for i := range records {
		rec := records[i]
		ref := rec.Ref()

		prev, seen := last[ref]
		if !seen {
			stored, ok, err := w.store.LastOccurredAt(ctx, db, ref)
			if err != nil {
				return nil, fmt.Errorf("read last change of %s %s: %w", ref.Type, ref.ID, err)
			}
			if ok {
				prev, seen = stored.UTC(), true
			}
		}

		at := now
		if seen && !at.After(prev) {
			at = prev.Add(timestampResolution)
		}
		rec.ID = uuid.NewString()
		rec.OccurredAt = at
		last[ref] = at

		if err := w.store.Insert(ctx, db, &rec); err != nil {
			return nil, fmt.Errorf("insert change record for %s %s: %w", ref.Type, ref.ID, err)
		}
		out[i] = rec
	}
	return out, nil
}
