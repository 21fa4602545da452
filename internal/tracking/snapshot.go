package tracking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/compliance-service/internal/domain"
	"github.com/spec-kit/compliance-service/internal/persistence"
)

// ErrReferenceNotFound is returned by resolvers when the referenced entity does not exist.
var ErrReferenceNotFound = errors.New("tracking: referenced entity not found")

// ReferenceResolver loads the stable, human-meaningful attributes of a
// referenced entity. It runs on the mutation's own handle.
type ReferenceResolver interface {
	Resolve(ctx context.Context, db persistence.DBTX, tenantID string, refType domain.EntityType, id string) (map[string]any, error)
}

// SnapshotBuilder flattens entities into snapshots.
type SnapshotBuilder struct {
	resolver ReferenceResolver
	logger   *zap.Logger
}

// NewSnapshotBuilder constructs a builder. resolver may be nil, in which case
// references keep only their raw key.
func NewSnapshotBuilder(resolver ReferenceResolver, logger *zap.Logger) *SnapshotBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotBuilder{resolver: resolver, logger: logger}
}

// Build copies the tracked fields of entity. Reference fields are expanded
// through the resolver; a failed resolution keeps the raw key and omits the
// attributes.
func (b *SnapshotBuilder) Build(ctx context.Context, db persistence.DBTX, spec EntitySpec, entity domain.Entity) (domain.Snapshot, error) {
	rv := reflect.ValueOf(entity)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, fmt.Errorf("tracking: nil %s entity", spec.Type)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("tracking: %s entity is %s, not a struct", spec.Type, rv.Kind())
	}

	index := auditIndex(rv.Type())
	tenantID := entity.EntityRef().TenantID
	snap := make(domain.Snapshot, len(spec.Fields))

	for _, f := range spec.Fields {
		path, ok := index[f.Name]
		if !ok {
			return nil, fmt.Errorf("tracking: %s has no field tagged %q", rv.Type(), f.Name)
		}
		raw, err := normalize(rv.FieldByIndex(path))
		if err != nil {
			return nil, fmt.Errorf("tracking: field %s.%s: %w", spec.Type, f.Name, err)
		}
		if f.Ref == "" {
			snap[f.Name] = domain.Scalar(raw)
			continue
		}
		snap[f.Name] = domain.Reference(f.Ref, raw, b.resolve(ctx, db, tenantID, f.Ref, raw))
	}
	return snap, nil
}

func (b *SnapshotBuilder) resolve(ctx context.Context, db persistence.DBTX, tenantID string, refType domain.EntityType, raw any) map[string]any {
	id, ok := raw.(string)
	if !ok || id == "" || b.resolver == nil {
		return nil
	}
	attrs, err := b.resolver.Resolve(ctx, db, tenantID, refType, id)
	if err != nil {
		b.logger.Warn("reference unresolved; keeping raw key",
			zap.String("ref_type", string(refType)),
			zap.String("ref_id", id),
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return nil
	}
	return attrs
}

var (
	timeType   = reflect.TypeOf(time.Time{})
	indexCache sync.Map // reflect.Type -> map[string][]int
)

// auditIndex maps audit tag names to struct field index paths, descending
// into embedded structs.
func auditIndex(t reflect.Type) map[string][]int {
	if cached, ok := indexCache.Load(t); ok {
		return cached.(map[string][]int)
	}
	index := make(map[string][]int)
	collectAuditFields(t, nil, index)
	indexCache.Store(t, index)
	return index
}

func collectAuditFields(t reflect.Type, prefix []int, index map[string][]int) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		path := append(append([]int(nil), prefix...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			collectAuditFields(sf.Type, path, index)
			continue
		}
		name := sf.Tag.Get("audit")
		if name == "" || name == "-" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = path
		}
	}
}

// normalize converts a field into the comparable scalar shapes stored in snapshots.
func normalize(v reflect.Value) (any, error) {
	if !v.IsValid() {
		return nil, nil
	}
	if v.Type() == timeType {
		return v.Interface().(time.Time).UTC().Format(time.RFC3339Nano), nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil, nil
		}
		return normalize(v.Elem())
	case reflect.String:
		return v.String(), nil
	case reflect.Bool:
		return v.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := v.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("unsigned value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		return v.Float(), nil
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.IsNil() {
			return nil, nil
		}
		out := make([]any, v.Len())
		for i := range out {
			item, err := normalize(v.Index(i))
			if err != nil {
				return nil, err
			}
			out[i] = item
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", v.Kind())
}
