package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// ValueKind is the closed set of shapes a snapshot value can take.
type ValueKind string

const (
	ValueScalar    ValueKind = "scalar"
	ValueReference ValueKind = "reference"
)

// Value is one flattened field of a snapshot. For references Raw holds the
// foreign key and Ref the resolved attributes of the referenced entity, or nil
// when it could not be resolved.
type Value struct {
	Kind    ValueKind      `json:"kind"`
	Raw     any            `json:"value"`
	RefType EntityType     `json:"refType,omitempty"`
	Ref     map[string]any `json:"ref,omitempty"`
}

// Scalar builds a scalar value.
func Scalar(v any) Value {
	return Value{Kind: ValueScalar, Raw: v}
}

// Reference builds a reference value; attrs may be nil.
func Reference(refType EntityType, id any, attrs map[string]any) Value {
	return Value{Kind: ValueReference, Raw: id, RefType: refType, Ref: attrs}
}

// Resolved reports whether a reference carries its denormalized attributes.
func (v Value) Resolved() bool {
	return v.Kind == ValueReference && v.Ref != nil
}

// Equal compares two values structurally. References are equal when they point
// at the same entity; their attributes only describe it.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	if v.Kind == ValueReference && v.RefType != o.RefType {
		return false
	}
	return reflect.DeepEqual(v.Raw, o.Raw)
}

// MarshalJSON writes floats with a fraction or exponent so integral floats
// decode back as float64 rather than int64.
func (v Value) MarshalJSON() ([]byte, error) {
	type wire Value
	w := wire(v)
	w.Raw = encodeFloats(v.Raw)
	if v.Ref != nil {
		w.Ref = encodeFloats(v.Ref).(map[string]any)
	}
	return json.Marshal(w)
}

// UnmarshalJSON keeps integers as int64 so stored snapshots compare the same
// way freshly built ones do.
func (v *Value) UnmarshalJSON(data []byte) error {
	type wire struct {
		Kind    ValueKind       `json:"kind"`
		Raw     json.RawMessage `json:"value"`
		RefType EntityType      `json:"refType,omitempty"`
		Ref     json.RawMessage `json:"ref,omitempty"`
	}
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case ValueScalar, ValueReference:
	default:
		return fmt.Errorf("snapshot: unknown value kind %q", w.Kind)
	}

	raw, err := decodeNumbers(w.Raw)
	if err != nil {
		return err
	}
	*v = Value{Kind: w.Kind, Raw: raw, RefType: w.RefType}

	if len(w.Ref) > 0 && !bytes.Equal(w.Ref, []byte("null")) {
		ref, err := decodeNumbers(w.Ref)
		if err != nil {
			return err
		}
		attrs, ok := ref.(map[string]any)
		if !ok {
			return fmt.Errorf("snapshot: reference attributes must be an object")
		}
		v.Ref = attrs
	}
	return nil
}

// Snapshot is the flattened, denormalized tracked state of one entity.
type Snapshot map[string]Value

// Field returns the value of field and whether it is present.
func (s Snapshot) Field(name string) (Value, bool) {
	if s == nil {
		return Value{}, false
	}
	v, ok := s[name]
	return v, ok
}

// MarshalSnapshot encodes s for storage; a nil snapshot encodes to nil.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// UnmarshalSnapshot decodes stored bytes; empty input yields a nil snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return s, nil
}

func decodeNumbers(data json.RawMessage) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return normalizeNumbers(out), nil
}

// normalizeNumbers maps integer literals to int64 and literals with a fraction
// or exponent to float64.
func normalizeNumbers(v any) any {
	switch typed := v.(type) {
	case json.Number:
		if !strings.ContainsAny(typed.String(), ".eE") {
			if i, err := typed.Int64(); err == nil {
				return i
			}
		}
		f, _ := typed.Float64()
		return f
	case []any:
		for i := range typed {
			typed[i] = normalizeNumbers(typed[i])
		}
		return typed
	case map[string]any:
		for k := range typed {
			typed[k] = normalizeNumbers(typed[k])
		}
		return typed
	default:
		return v
	}
}

func encodeFloats(v any) any {
	switch typed := v.(type) {
	case float64:
		return floatLiteral(typed)
	case []any:
		out := make([]any, len(typed))
		for i := range typed {
			out[i] = encodeFloats(typed[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(typed))
		for k, item := range typed {
			out[k] = encodeFloats(item)
		}
		return out
	default:
		return v
	}
}

// floatLiteral renders f as a JSON number that cannot be read as an integer.
// NaN and infinities are left for the encoder to reject.
func floatLiteral(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	lit := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(lit, ".eE") {
		lit += ".0"
	}
	return json.Number(lit)
}
