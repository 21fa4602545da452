package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTripKeepsTypes(t *testing.T) {
	snap := Snapshot{
		"containsPersonalData": Scalar(true),
		"riskLevel":            Scalar("HIGH"),
		"retentionDays":        Scalar(int64(30)),
		"countryId": Reference(EntityTypeCountry, "c-1", map[string]any{
			"name":    "Germany",
			"code":    "DE",
			"isEuEea": true,
		}),
		"safeguardMechanismId": Reference(EntityTypeSafeguardMechanism, "s-1", nil),
	}

	data, err := MarshalSnapshot(snap)
	require.NoError(t, err)

	decoded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(snap))

	for name, want := range snap {
		got, ok := decoded.Field(name)
		require.True(t, ok, name)
		assert.True(t, want.Equal(got), "field %s: want %#v got %#v", name, want, got)
	}
	assert.Equal(t, int64(30), decoded["retentionDays"].Raw)
	assert.True(t, decoded["countryId"].Resolved())
	assert.Equal(t, "DE", decoded["countryId"].Ref["code"])
	assert.False(t, decoded["safeguardMechanismId"].Resolved())
}

func TestUnmarshalSnapshotEmpty(t *testing.T) {
	snap, err := UnmarshalSnapshot(nil)
	require.NoError(t, err)
	assert.Nil(t, snap)

	snap, err = UnmarshalSnapshot([]byte("null"))
	require.NoError(t, err)
	assert.Nil(t, snap)

	data, err := MarshalSnapshot(nil)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestUnmarshalSnapshotRejectsUnknownKind(t *testing.T) {
	_, err := UnmarshalSnapshot([]byte(`{"name":{"kind":"blob","value":1}}`))
	require.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, Scalar("LOW").Equal(Scalar("LOW")))
	assert.False(t, Scalar("LOW").Equal(Scalar("HIGH")))
	assert.False(t, Scalar("c-1").Equal(Reference(EntityTypeCountry, "c-1", nil)))
	assert.True(t, Reference(EntityTypeCountry, "c-1", nil).
		Equal(Reference(EntityTypeCountry, "c-1", map[string]any{"name": "Germany"})))
	assert.False(t, Reference(EntityTypeCountry, "c-1", nil).
		Equal(Reference(EntityTypeCountry, "c-2", nil)))
	assert.True(t, Scalar([]any{"a", "b"}).Equal(Scalar([]any{"a", "b"})))
}

func TestSnapshotRoundTripKeepsFloatKind(t *testing.T) {
	snap := Snapshot{
		"score":   Scalar(float64(1)),
		"ratio":   Scalar(0.25),
		"weights": Scalar([]any{float64(2), int64(3)}),
		"countryId": Reference(EntityTypeCountry, "c-1", map[string]any{
			"adequacy": float64(100),
		}),
	}

	data, err := MarshalSnapshot(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"value":1.0`)

	decoded, err := UnmarshalSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, float64(1), decoded["score"].Raw)
	assert.True(t, snap["score"].Equal(decoded["score"]))
	assert.Equal(t, 0.25, decoded["ratio"].Raw)
	assert.Equal(t, []any{float64(2), int64(3)}, decoded["weights"].Raw)
	assert.Equal(t, float64(100), decoded["countryId"].Ref["adequacy"])
	assert.Equal(t, float64(1), snap["score"].Raw, "encoding must not touch the caller's value")
}
