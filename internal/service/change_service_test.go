package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
	apperrors "github.com/spec-kit/compliance-service/pkg/util"
)

type stubReader struct {
	records []domain.ChangeRecord
	got     *domain.ChangeFilter
	err     error
}

func (r *stubReader) List(_ context.Context, _ persistence.DBTX, filter domain.ChangeFilter) ([]domain.ChangeRecord, error) {
	r.got = &filter
	return r.records, r.err
}

type stubWatermarks map[string]time.Time

func (w stubWatermarks) Watermark(_ context.Context, tenantID string) (time.Time, bool, error) {
	at, ok := w[tenantID]
	return at, ok, nil
}

func ptr[T any](v T) *T { return &v }

func TestChangeServiceListDerivesLogicalKinds(t *testing.T) {
	reader := &stubReader{records: []domain.ChangeRecord{
		{TenantID: "t1", EntityType: domain.EntityTypeAsset, ChangeKind: domain.ChangeKindCreated},
		{
			TenantID:       "t1",
			EntityType:     domain.EntityTypeAsset,
			ChangeKind:     domain.ChangeKindUpdated,
			ChangedField:   ptr("isActive"),
			BeforeSnapshot: domain.Snapshot{"isActive": domain.Scalar(true)},
			AfterSnapshot:  domain.Snapshot{"isActive": domain.Scalar(false)},
		},
		{TenantID: "t1", EntityType: domain.EntityTypeAsset, ChangeKind: domain.ChangeKindRestored, ChangedField: ptr("isActive")},
		{TenantID: "t2", EntityType: domain.EntityTypeAsset, ChangeKind: domain.ChangeKindCreated},
	}}
	svc := NewChangeService(ChangeDependencies{Reader: reader})

	entityType := domain.EntityTypeAsset
	entries, err := svc.List(context.Background(), domain.ChangeFilter{TenantID: "t1", EntityType: &entityType, Limit: 10})
	require.NoError(t, err)

	require.Len(t, entries, 3)
	assert.Equal(t, domain.LogicalKindCreated, entries[0].Kind)
	assert.Equal(t, domain.LogicalKindDeleted, entries[1].Kind)
	assert.Equal(t, domain.LogicalKindRestored, entries[2].Kind)
	assert.Equal(t, "t1", reader.got.TenantID)
}

func TestChangeServiceListValidation(t *testing.T) {
	svc := NewChangeService(ChangeDependencies{Reader: &stubReader{}})
	unknown := domain.EntityType("note")

	tcs := []struct {
		name   string
		filter domain.ChangeFilter
		code   string
	}{
		{name: "missing tenant", filter: domain.ChangeFilter{}, code: "UNAUTHORIZED"},
		{name: "untracked type", filter: domain.ChangeFilter{TenantID: "t1", EntityType: &unknown}, code: "VALIDATION_FAILED"},
		{name: "limit", filter: domain.ChangeFilter{TenantID: "t1", Limit: 5000}, code: "VALIDATION_FAILED"},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), tc.filter)
			require.Error(t, err)
			assert.Equal(t, tc.code, apperrors.ToDomainError(err).Code)
		})
	}
}

func TestChangeServiceListMapsReaderErrors(t *testing.T) {
	svc := NewChangeService(ChangeDependencies{Reader: &stubReader{err: persistence.ErrNoDatabase}})
	_, err := svc.List(context.Background(), domain.ChangeFilter{TenantID: "t1"})
	assert.Equal(t, "SERVICE_UNAVAILABLE", apperrors.ToDomainError(err).Code)

	svc = NewChangeService(ChangeDependencies{Reader: &stubReader{err: errors.New("boom")}})
	_, err = svc.List(context.Background(), domain.ChangeFilter{TenantID: "t1"})
	assert.Equal(t, "INTERNAL_ERROR", apperrors.ToDomainError(err).Code)
}

func TestChangeServiceWatermark(t *testing.T) {
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc := NewChangeService(ChangeDependencies{Reader: &stubReader{}, Watermarks: stubWatermarks{"t1": at}})

	got, ok, err := svc.Watermark(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, at, got)

	_, ok, err = NewChangeService(ChangeDependencies{Reader: &stubReader{}}).Watermark(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestChangeServiceCanonicalizesUUIDTenant(t *testing.T) {
	const (
		stored = "3f2504e0-4f89-11d3-9a0c-0305e82c3301"
		asked  = "3F2504E0-4F89-11D3-9A0C-0305E82C3301"
	)
	at := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	reader := &stubReader{records: []domain.ChangeRecord{
		{TenantID: stored, EntityType: domain.EntityTypeAsset, ChangeKind: domain.ChangeKindCreated},
	}}
	svc := NewChangeService(ChangeDependencies{Reader: reader, Watermarks: stubWatermarks{stored: at}})

	entries, err := svc.List(context.Background(), domain.ChangeFilter{TenantID: asked})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, stored, reader.got.TenantID)

	got, ok, err := svc.Watermark(context.Background(), "{"+asked+"}")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, at, got)
}
