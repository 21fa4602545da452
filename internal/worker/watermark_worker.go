package worker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/events"
)

// WatermarkStore advances a tenant's latest committed change time.
type WatermarkStore interface {
	AdvanceWatermark(ctx context.Context, tenantID string, at time.Time) error
}

// StartWatermarkWorker subscribes to committed changes and moves the tenant
// watermark forward.
func StartWatermarkWorker(dispatcher events.Dispatcher, store WatermarkStore, logger *zap.Logger) {
	if dispatcher == nil || store == nil {
		return
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher.Subscribe(events.EventChangesCommitted, func(ctx context.Context, ev events.Event) error {
		payload, ok := ev.Payload.(events.ChangesCommittedPayload)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", ev.Type, ev.Payload)
		}
		if payload.LatestOccurredAt.IsZero() {
			return nil
		}
		if err := store.AdvanceWatermark(ctx, ev.TenantID, payload.LatestOccurredAt); err != nil {
			return fmt.Errorf("advance watermark for tenant %s: %w", ev.TenantID, err)
		}
		logger.Debug("change watermark advanced",
			zap.String("tenant_id", ev.TenantID),
			zap.Time("at", payload.LatestOccurredAt),
		)
		return nil
	})
}
