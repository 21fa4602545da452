package tracking

import (
	"fmt"

	"github.com/spec-kit/compliance-service/internal/domain"
)

// Field is one tracked field. Ref is set for foreign keys and names the
// referenced entity type.
type Field struct {
	Name string
	Ref  domain.EntityType
}

// EntitySpec lists the tracked fields of one entity type in diff order.
// ActiveField names the boolean soft-delete flag, if the type has one.
type EntitySpec struct {
	Type        domain.EntityType
	Fields      []Field
	ActiveField string
}

// FieldNames returns the tracked field names in order.
func (s EntitySpec) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Registry is the closed whitelist of tracked entity types and fields.
type Registry struct {
	specs map[domain.EntityType]EntitySpec
}

// NewRegistry validates specs and builds a registry.
func NewRegistry(specs ...EntitySpec) (*Registry, error) {
	r := &Registry{specs: make(map[domain.EntityType]EntitySpec, len(specs))}
	for _, spec := range specs {
		if spec.Type == "" {
			return nil, fmt.Errorf("tracking: entity spec without type")
		}
		if _, dup := r.specs[spec.Type]; dup {
			return nil, fmt.Errorf("tracking: entity type %q registered twice", spec.Type)
		}
		if len(spec.Fields) == 0 {
			return nil, fmt.Errorf("tracking: entity type %q has no tracked fields", spec.Type)
		}
		seen := make(map[string]Field, len(spec.Fields))
		for _, f := range spec.Fields {
			if f.Name == "" {
				return nil, fmt.Errorf("tracking: entity type %q has an unnamed field", spec.Type)
			}
			if _, dup := seen[f.Name]; dup {
				return nil, fmt.Errorf("tracking: field %q listed twice for %q", f.Name, spec.Type)
			}
			seen[f.Name] = f
		}
		if spec.ActiveField != "" {
			f, ok := seen[spec.ActiveField]
			if !ok {
				return nil, fmt.Errorf("tracking: active field %q of %q is not tracked", spec.ActiveField, spec.Type)
			}
			if f.Ref != "" {
				return nil, fmt.Errorf("tracking: active field %q of %q cannot be a reference", spec.ActiveField, spec.Type)
			}
		}
		spec.Fields = append([]Field(nil), spec.Fields...)
		r.specs[spec.Type] = spec
	}
	return r, nil
}

// DefaultRegistry returns the compliance-critical fields of every tracked type.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(
		EntitySpec{
			Type: domain.EntityTypeCountry,
			Fields: []Field{
				{Name: "name"},
				{Name: "code"},
				{Name: "isEuEea"},
				{Name: "hasAdequacyDecision"},
				{Name: "isActive"},
			},
			ActiveField: "isActive",
		},
		EntitySpec{
			Type: domain.EntityTypeSafeguardMechanism,
			Fields: []Field{
				{Name: "name"},
				{Name: "code"},
				{Name: "isActive"},
			},
			ActiveField: "isActive",
		},
		EntitySpec{
			Type: domain.EntityTypeAsset,
			Fields: []Field{
				{Name: "name"},
				{Name: "hostingProvider"},
				{Name: "countryId", Ref: domain.EntityTypeCountry},
				{Name: "safeguardMechanismId", Ref: domain.EntityTypeSafeguardMechanism},
				{Name: "containsPersonalData"},
				{Name: "riskLevel"},
				{Name: "isActive"},
			},
			ActiveField: "isActive",
		},
		EntitySpec{
			Type: domain.EntityTypeActivity,
			Fields: []Field{
				{Name: "name"},
				{Name: "assetId", Ref: domain.EntityTypeAsset},
				{Name: "legalBasis"},
				{Name: "riskLevel"},
				{Name: "containsSpecialCategoryData"},
				{Name: "isActive"},
			},
			ActiveField: "isActive",
		},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// FieldsFor returns the ordered tracked field names of entityType, or nil when
// the type is not tracked.
func (r *Registry) FieldsFor(entityType domain.EntityType) []string {
	spec, ok := r.Spec(entityType)
	if !ok {
		return nil
	}
	return spec.FieldNames()
}

// Spec returns the full spec of a tracked type.
func (r *Registry) Spec(entityType domain.EntityType) (EntitySpec, bool) {
	if r == nil {
		return EntitySpec{}, false
	}
	spec, ok := r.specs[entityType]
	return spec, ok
}

// Types returns every tracked entity type.
func (r *Registry) Types() []domain.EntityType {
	if r == nil {
		return nil
	}
	out := make([]domain.EntityType, 0, len(r.specs))
	for t := range r.specs {
		out = append(out, t)
	}
	return out
}
