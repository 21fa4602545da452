package tracking

import "github.com/spec-kit/compliance-service/internal/domain"

// Classify turns one mutation into its change records. A nil before snapshot
// is a creation and yields a single CREATED record; otherwise every diff unit
// yields exactly one record, in diff order.
func Classify(ref domain.EntityRef, spec EntitySpec, before, after domain.Snapshot, diffs []DiffUnit, caller domain.CallerContext) []domain.ChangeRecord {
	base := domain.ChangeRecord{
		TenantID:   ref.TenantID,
		EntityType: ref.Type,
		EntityID:   ref.ID,
		ActorID:    copyString(caller.ActorID),
		Reason:     copyString(caller.Reason),
	}

	if before == nil {
		rec := base
		rec.ChangeKind = domain.ChangeKindCreated
		rec.AfterSnapshot = after
		return []domain.ChangeRecord{rec}
	}

	records := make([]domain.ChangeRecord, 0, len(diffs))
	for _, unit := range diffs {
		rec := base
		field := unit.Field
		rec.ChangedField = &field
		rec.ChangeKind = classifyUnit(spec, unit)
		rec.BeforeSnapshot = before
		rec.AfterSnapshot = after
		records = append(records, rec)
	}
	return records
}

func classifyUnit(spec EntitySpec, unit DiffUnit) domain.ChangeKind {
	if spec.ActiveField == "" || unit.Field != spec.ActiveField {
		return domain.ChangeKindUpdated
	}
	was, okBefore := boolValue(unit.Before)
	is, okAfter := boolValue(unit.After)
	if okBefore && okAfter && !was && is {
		return domain.ChangeKindRestored
	}
	// true -> false stays UPDATED; LogicalKind reports it as DELETED.
	return domain.ChangeKindUpdated
}

// LogicalKind derives the reader-facing kind of a stored record.
func LogicalKind(registry *Registry, rec domain.ChangeRecord) domain.LogicalKind {
	switch rec.ChangeKind {
	case domain.ChangeKindCreated:
		return domain.LogicalKindCreated
	case domain.ChangeKindRestored:
		return domain.LogicalKindRestored
	}
	if IsSoftDelete(registry, rec) {
		return domain.LogicalKindDeleted
	}
	return domain.LogicalKindUpdated
}

// IsSoftDelete reports whether rec is an UPDATED record switching the active
// flag from true to false.
func IsSoftDelete(registry *Registry, rec domain.ChangeRecord) bool {
	if rec.ChangeKind != domain.ChangeKindUpdated || rec.ChangedField == nil {
		return false
	}
	spec, ok := registry.Spec(rec.EntityType)
	if !ok || spec.ActiveField == "" || *rec.ChangedField != spec.ActiveField {
		return false
	}
	before, _ := rec.FieldBefore()
	after, _ := rec.FieldAfter()
	was, okBefore := boolValue(before)
	is, okAfter := boolValue(after)
	return okBefore && okAfter && was && !is
}

func boolValue(v domain.Value) (bool, bool) {
	if v.Kind != domain.ValueScalar {
		return false, false
	}
	b, ok := v.Raw.(bool)
	return b, ok
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
