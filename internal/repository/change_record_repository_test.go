package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func TestBuildChangeQueryTenantOnly(t *testing.T) {
	query, args, err := buildChangeQuery(domain.ChangeFilter{TenantID: "tenant-a"})
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE tenant_id=$1 ORDER BY occurred_at ASC, seq ASC LIMIT $2")
	assert.Equal(t, []any{"tenant-a", defaultChangeLimit}, args)
}

func TestBuildChangeQueryAllFilters(t *testing.T) {
	entityType := domain.EntityTypeAsset
	entityID := "asset-1"
	since := time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600))

	query, args, err := buildChangeQuery(domain.ChangeFilter{
		TenantID:   "tenant-a",
		EntityType: &entityType,
		EntityID:   &entityID,
		Since:      &since,
		Limit:      5000,
	})
	require.NoError(t, err)

	where := query[strings.Index(query, "WHERE"):]
	assert.True(t, strings.HasPrefix(where, "WHERE tenant_id=$1 AND entity_type=$2 AND entity_id=$3 AND occurred_at >= $4"))
	assert.Contains(t, query, "LIMIT $5")
	require.Len(t, args, 5)
	assert.Equal(t, "asset", args[1])
	assert.Equal(t, since.UTC(), args[3])
	assert.Equal(t, maxChangeLimit, args[4])
}

func TestBuildChangeQueryRequiresTenant(t *testing.T) {
	_, _, err := buildChangeQuery(domain.ChangeFilter{TenantID: "  "})
	require.ErrorIs(t, err, errTenantRequired)
}

func TestBuildChangeQueryResumesAfterCursor(t *testing.T) {
	since := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	after := domain.ChangeCursor{OccurredAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.FixedZone("CET", 3600)), Seq: 17}

	query, args, err := buildChangeQuery(domain.ChangeFilter{TenantID: "tenant-a", Since: &since, After: &after, Limit: 2})
	require.NoError(t, err)

	assert.Contains(t, query, "occurred_at >= $2 AND (occurred_at, seq) > ($3, $4)")
	assert.Contains(t, query, "ORDER BY occurred_at ASC, seq ASC LIMIT $5")
	assert.Equal(t, []any{"tenant-a", since, after.OccurredAt.UTC(), int64(17), 2}, args)
}
