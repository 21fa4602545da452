package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func fixedClock(at time.Time) Clock {
	return func() time.Time { return at }
}

func TestWriterAssignsIDsAndMonotonicTimes(t *testing.T) {
	db := newMemDB()
	now := time.Date(2024, 1, 1, 9, 0, 0, 123456789, time.UTC)
	w := NewWriter(&memStore{db: db}, fixedClock(now))

	recs := []domain.ChangeRecord{
		{TenantID: "t1", EntityType: domain.EntityTypeAsset, EntityID: "a-1", ChangeKind: domain.ChangeKindUpdated, ChangedField: strPtr("name")},
		{TenantID: "t1", EntityType: domain.EntityTypeAsset, EntityID: "a-1", ChangeKind: domain.ChangeKindUpdated, ChangedField: strPtr("riskLevel")},
	}
	written, err := w.Write(context.Background(), nil, recs)
	require.NoError(t, err)
	require.Len(t, written, 2)

	assert.NotEmpty(t, written[0].ID)
	assert.NotEqual(t, written[0].ID, written[1].ID)
	assert.Equal(t, now.Truncate(time.Microsecond), written[0].OccurredAt)
	assert.Equal(t, written[0].OccurredAt.Add(time.Microsecond), written[1].OccurredAt)
	assert.Less(t, written[0].Seq, written[1].Seq)

	// A second call with a clock that stepped back still moves forward.
	w = NewWriter(&memStore{db: db}, fixedClock(now.Add(-time.Hour)))
	again, err := w.Write(context.Background(), nil, recs[:1])
	require.NoError(t, err)
	assert.True(t, again[0].OccurredAt.After(written[1].OccurredAt))
	assert.Len(t, db.records, 3)
}

func TestWriterTimesAreIndependentPerEntity(t *testing.T) {
	db := newMemDB()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	w := NewWriter(&memStore{db: db}, fixedClock(now))

	written, err := w.Write(context.Background(), nil, []domain.ChangeRecord{
		{TenantID: "t1", EntityType: domain.EntityTypeAsset, EntityID: "a-1"},
		{TenantID: "t1", EntityType: domain.EntityTypeAsset, EntityID: "a-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, now, written[0].OccurredAt)
	assert.Equal(t, now, written[1].OccurredAt)
}

func TestWriterPropagatesInsertFailure(t *testing.T) {
	db := newMemDB()
	boom := errors.New("connection refused")
	w := NewWriter(&memStore{db: db, failInsert: boom}, nil)

	_, err := w.Write(context.Background(), nil, []domain.ChangeRecord{{TenantID: "t1", EntityID: "a-1"}})
	require.ErrorIs(t, err, boom)
}

func TestWriterNoRecords(t *testing.T) {
	w := NewWriter(&memStore{db: newMemDB()}, nil)
	written, err := w.Write(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, written)
}
