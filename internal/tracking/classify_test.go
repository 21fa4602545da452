package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/compliance-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestClassifyCreation(t *testing.T) {
	spec, _ := DefaultRegistry().Spec(domain.EntityTypeAsset)
	ref := domain.EntityRef{TenantID: "t1", Type: domain.EntityTypeAsset, ID: "a-1"}
	after := domain.Snapshot{"name": domain.Scalar("CRM")}
	caller := domain.CallerContext{ActorID: strPtr("user-1"), Reason: strPtr("onboarding")}

	records := Classify(ref, spec, nil, after, nil, caller)

	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, domain.ChangeKindCreated, rec.ChangeKind)
	assert.Nil(t, rec.ChangedField)
	assert.Nil(t, rec.BeforeSnapshot)
	assert.Equal(t, after, rec.AfterSnapshot)
	assert.Equal(t, ref, rec.Ref())
	assert.Equal(t, "user-1", *rec.ActorID)
	assert.Equal(t, "onboarding", *rec.Reason)

	*caller.ActorID = "changed"
	assert.Equal(t, "user-1", *rec.ActorID)
}

func TestClassifyActiveFlagTransitions(t *testing.T) {
	spec, _ := DefaultRegistry().Spec(domain.EntityTypeAsset)
	registry := DefaultRegistry()
	ref := domain.EntityRef{TenantID: "t1", Type: domain.EntityTypeAsset, ID: "a-1"}

	tcs := []struct {
		name    string
		field   string
		before  any
		after   any
		kind    domain.ChangeKind
		logical domain.LogicalKind
	}{
		{name: "soft delete", field: "isActive", before: true, after: false, kind: domain.ChangeKindUpdated, logical: domain.LogicalKindDeleted},
		{name: "restore", field: "isActive", before: false, after: true, kind: domain.ChangeKindRestored, logical: domain.LogicalKindRestored},
		{name: "other boolean", field: "containsPersonalData", before: true, after: false, kind: domain.ChangeKindUpdated, logical: domain.LogicalKindUpdated},
		{name: "active from null", field: "isActive", before: nil, after: false, kind: domain.ChangeKindUpdated, logical: domain.LogicalKindUpdated},
	}
	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			before := domain.Snapshot{tc.field: domain.Scalar(tc.before)}
			after := domain.Snapshot{tc.field: domain.Scalar(tc.after)}
			diffs := Diff([]string{tc.field}, before, after)

			records := Classify(ref, spec, before, after, diffs, domain.CallerContext{})

			require.Len(t, records, 1)
			assert.Equal(t, tc.kind, records[0].ChangeKind)
			assert.Equal(t, tc.field, *records[0].ChangedField)
			assert.Equal(t, tc.logical, LogicalKind(registry, records[0]))
		})
	}
}

func TestClassifyOneRecordPerDiff(t *testing.T) {
	spec, _ := DefaultRegistry().Spec(domain.EntityTypeAsset)
	ref := domain.EntityRef{TenantID: "t1", Type: domain.EntityTypeAsset, ID: "a-1"}
	before := domain.Snapshot{"riskLevel": domain.Scalar("LOW"), "isActive": domain.Scalar(true)}
	after := domain.Snapshot{"riskLevel": domain.Scalar("HIGH"), "isActive": domain.Scalar(false)}
	diffs := Diff(spec.FieldNames(), before, after)

	records := Classify(ref, spec, before, after, diffs, domain.CallerContext{})

	require.Len(t, records, 2)
	assert.Equal(t, "riskLevel", *records[0].ChangedField)
	assert.Equal(t, "isActive", *records[1].ChangedField)
	for _, rec := range records {
		assert.Equal(t, before, rec.BeforeSnapshot)
		assert.Equal(t, after, rec.AfterSnapshot)
		assert.Nil(t, rec.ActorID)
		assert.Nil(t, rec.Reason)
	}
}

func TestLogicalKindUnknownType(t *testing.T) {
	rec := domain.ChangeRecord{EntityType: "note", ChangeKind: domain.ChangeKindUpdated, ChangedField: strPtr("isActive")}
	assert.Equal(t, domain.LogicalKindUpdated, LogicalKind(DefaultRegistry(), rec))
}
