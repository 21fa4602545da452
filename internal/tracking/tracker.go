// Package tracking records an immutable, tenant-scoped trail of field-level
// changes to whitelisted entity types, written in the same transaction as the
// mutation that caused them.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/events"
	"github.com/spec-kit/compliance-service/internal/observability"
	"github.com/spec-kit/compliance-service/internal/persistence"
)

// ErrSnapshotUnavailable means the entity could not be read back after its
// mutation. The call fails rather than commit a mutation without its records.
var ErrSnapshotUnavailable = errors.New("tracking: after-snapshot unavailable")

// Config switches the pipeline. With Enabled false every wrapped call goes
// straight to the repository.
type Config struct {
	Enabled bool
}

// Repository is the tenant-aware persistence surface a Tracked wrapper decorates.
type Repository[T domain.Entity] interface {
	Get(ctx context.Context, db persistence.DBTX, tenantID, id string) (T, error)
	GetForUpdate(ctx context.Context, db persistence.DBTX, tenantID, id string) (T, error)
	Create(ctx context.Context, db persistence.DBTX, entity T) error
	Update(ctx context.Context, db persistence.DBTX, entity T) error
}

// Dependencies bundles the collaborators of a Tracker.
type Dependencies struct {
	Registry   *Registry
	Transactor persistence.Transactor
	Resolver   ReferenceResolver
	Store      RecordStore
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      Clock
}

// Tracker holds the pipeline shared by every wrapped repository.
type Tracker struct {
	cfg        Config
	registry   *Registry
	tx         persistence.Transactor
	builder    *SnapshotBuilder
	writer     *Writer
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewTracker constructs a tracker.
func NewTracker(cfg Config, deps Dependencies) *Tracker {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	registry := deps.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Tracker{
		cfg:        cfg,
		registry:   registry,
		tx:         deps.Transactor,
		builder:    NewSnapshotBuilder(deps.Resolver, logger),
		writer:     NewWriter(deps.Store, deps.Clock),
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// Enabled reports whether the pipeline runs.
func (t *Tracker) Enabled() bool {
	return t.cfg.Enabled
}

// Registry returns the tracked-field registry.
func (t *Tracker) Registry() *Registry {
	return t.registry
}

func (t *Tracker) specFor(entityType domain.EntityType) (EntitySpec, bool) {
	if !t.cfg.Enabled {
		return EntitySpec{}, false
	}
	return t.registry.Spec(entityType)
}

// Tracked decorates a Repository with change tracking.
type Tracked[T domain.Entity] struct {
	tracker *Tracker
	repo    Repository[T]
}

// Wrap decorates repo.
func Wrap[T domain.Entity](tracker *Tracker, repo Repository[T]) *Tracked[T] {
	return &Tracked[T]{tracker: tracker, repo: repo}
}

// Get reads an entity outside any transaction.
func (w *Tracked[T]) Get(ctx context.Context, tenantID, id string) (T, error) {
	return w.repo.Get(ctx, w.tracker.tx.Handle(), tenantID, id)
}

// Create inserts entity and records a single CREATED entry for it.
func (w *Tracked[T]) Create(ctx context.Context, entity T, caller domain.CallerContext) error {
	spec, ok := w.tracker.specFor(entity.EntityRef().Type)
	if !ok {
		return w.repo.Create(ctx, w.tracker.tx.Handle(), entity)
	}

	var written []domain.ChangeRecord
	err := w.tracker.tx.WithinTx(ctx, func(ctx context.Context, db persistence.DBTX) error {
		if err := w.repo.Create(ctx, db, entity); err != nil {
			return err
		}
		ref, after, err := w.snapshotAfter(ctx, db, spec, entity.EntityRef())
		if err != nil {
			return err
		}
		records := Classify(ref, spec, nil, after, nil, caller)
		written, err = w.tracker.writer.Write(ctx, db, records)
		return err
	})
	if err != nil {
		return err
	}
	w.tracker.committed(ctx, written)
	return nil
}

// Update applies entity and records one entry per changed tracked field.
func (w *Tracked[T]) Update(ctx context.Context, entity T, caller domain.CallerContext) error {
	spec, ok := w.tracker.specFor(entity.EntityRef().Type)
	if !ok {
		return w.repo.Update(ctx, w.tracker.tx.Handle(), entity)
	}

	var written []domain.ChangeRecord
	err := w.tracker.tx.WithinTx(ctx, func(ctx context.Context, db persistence.DBTX) error {
		target := entity.EntityRef()
		current, err := w.repo.GetForUpdate(ctx, db, target.TenantID, target.ID)
		if err != nil {
			return fmt.Errorf("fetch %s %s before update: %w", target.Type, target.ID, err)
		}
		before, err := w.tracker.builder.Build(ctx, db, spec, current)
		if err != nil {
			return err
		}

		if err := w.repo.Update(ctx, db, entity); err != nil {
			return err
		}

		ref, after, err := w.snapshotAfter(ctx, db, spec, target)
		if err != nil {
			return err
		}
		diffs := Diff(spec.FieldNames(), before, after)
		if len(diffs) == 0 {
			return nil
		}
		records := Classify(ref, spec, before, after, diffs, caller)
		written, err = w.tracker.writer.Write(ctx, db, records)
		return err
	})
	if err != nil {
		return err
	}
	w.tracker.committed(ctx, written)
	return nil
}

// snapshotAfter re-reads the mutated entity and builds its snapshot. The
// returned ref is taken from the stored row so records carry its tenant.
func (w *Tracked[T]) snapshotAfter(ctx context.Context, db persistence.DBTX, spec EntitySpec, target domain.EntityRef) (domain.EntityRef, domain.Snapshot, error) {
	if target.ID == "" {
		return domain.EntityRef{}, nil, fmt.Errorf("%w: %s has no id after mutation", ErrSnapshotUnavailable, target.Type)
	}
	stored, err := w.repo.Get(ctx, db, target.TenantID, target.ID)
	if err != nil {
		return domain.EntityRef{}, nil, fmt.Errorf("%w: %s %s: %w", ErrSnapshotUnavailable, target.Type, target.ID, err)
	}
	snap, err := w.tracker.builder.Build(ctx, db, spec, stored)
	if err != nil {
		return domain.EntityRef{}, nil, err
	}
	return stored.EntityRef(), snap, nil
}

// committed runs after commit. Nothing here can undo the records, so failures
// are only logged.
func (t *Tracker) committed(ctx context.Context, records []domain.ChangeRecord) {
	if len(records) == 0 {
		return
	}
	payload := events.ChangesCommittedPayload{
		RecordIDs: make([]string, 0, len(records)),
		Kinds:     make([]domain.ChangeKind, 0, len(records)),
	}
	for _, rec := range records {
		t.metrics.RecordChange(string(rec.EntityType), string(rec.ChangeKind))
		payload.RecordIDs = append(payload.RecordIDs, rec.ID)
		payload.Kinds = append(payload.Kinds, rec.ChangeKind)
		if rec.OccurredAt.After(payload.LatestOccurredAt) {
			payload.LatestOccurredAt = rec.OccurredAt
		}
	}

	ref := records[0].Ref()
	t.logger.Debug("change records committed",
		zap.String("tenant_id", ref.TenantID),
		zap.String("entity_type", string(ref.Type)),
		zap.String("entity_id", ref.ID),
		zap.Int("count", len(records)),
	)

	if t.dispatcher == nil {
		return
	}
	err := t.dispatcher.Publish(ctx, events.Event{
		ID:         uuid.NewString(),
		Type:       events.EventChangesCommitted,
		TenantID:   ref.TenantID,
		EntityType: ref.Type,
		EntityID:   ref.ID,
		Timestamp:  time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		t.logger.Warn("publish changes_committed failed", zap.String("entity_id", ref.ID), zap.Error(err))
	}
}
