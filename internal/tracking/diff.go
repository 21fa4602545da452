package tracking

import "github.com/spec-kit/compliance-service/internal/domain"

// DiffUnit is one tracked field whose value changed.
type DiffUnit struct {
	Field  string
	Before domain.Value
	After  domain.Value
}

// Diff compares before and after on the given fields only, in order. Each
// mismatch yields its own unit.
func Diff(fields []string, before, after domain.Snapshot) []DiffUnit {
	var units []DiffUnit
	for _, name := range fields {
		b, _ := before.Field(name)
		a, _ := after.Field(name)
		if b.Equal(a) {
			continue
		}
		units = append(units, DiffUnit{Field: name, Before: b, After: a})
	}
	return units
}
