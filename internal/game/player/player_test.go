package player

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }

func TestStatePatch_ApplyAllFields(t *testing.T) {
	s := State{X: 10, Y: 20, HP: 100, HPMax: 100}
	p := StatePatch{
		X:       ptrF(42),
		Y:       ptrF(7),
		HP:      ptrI(55),
		HPMax:   ptrI(120),
		Daggers: []Dagger{{Index: 0, Spin: 1.5}},
	}
	p.Apply(&s)

	assert.Equal(t, 42.0, s.X)
	assert.Equal(t, 7.0, s.Y)
	assert.Equal(t, 55, s.HP)
	assert.Equal(t, 120, s.HPMax)
	require.Len(t, s.Daggers, 1)
	assert.Equal(t, 1.5, s.Daggers[0].Spin)
}

func TestStatePatch_AbsentFieldsUntouched(t *testing.T) {
	s := State{X: 10, Y: 20, HP: 80, HPMax: 100, Daggers: []Dagger{{Index: 0, Spin: 2}}}
	p := StatePatch{X: ptrF(11)}
	p.Apply(&s)

	assert.Equal(t, 11.0, s.X)
	assert.Equal(t, 20.0, s.Y)
	assert.Equal(t, 80, s.HP)
	assert.Equal(t, 100, s.HPMax)
	assert.Len(t, s.Daggers, 1)
}

func TestStatePatch_UnrecognizedFieldsDropped(t *testing.T) {
	raw := []byte(`{"x": 5, "velocity": 99, "admin": true}`)
	var p StatePatch
	require.NoError(t, json.Unmarshal(raw, &p))

	require.NotNil(t, p.X)
	assert.Equal(t, 5.0, *p.X)
	assert.Nil(t, p.Y)
	assert.Nil(t, p.HP)
	assert.Nil(t, p.HPMax)
	assert.Nil(t, p.Daggers)
}

func TestStatePatch_ZeroValuesAreCarried(t *testing.T) {
	raw := []byte(`{"x": 0, "hp": 0}`)
	var p StatePatch
	require.NoError(t, json.Unmarshal(raw, &p))

	s := State{X: 50, HP: 75, HPMax: 100}
	p.Apply(&s)
	assert.Equal(t, 0.0, s.X)
	assert.Equal(t, 0, s.HP)
}

func TestStatePatch_Empty(t *testing.T) {
	assert.True(t, StatePatch{}.Empty())
	assert.False(t, StatePatch{X: ptrF(1)}.Empty())
	assert.False(t, StatePatch{Daggers: []Dagger{}}.Empty())
}

func TestNewSnapshot_CopiesDaggers(t *testing.T) {
	s := State{X: 1, Y: 2, HP: 90, HPMax: 100, Daggers: []Dagger{{Index: 0, Spin: 3}}}
	snap := NewSnapshot("player_1", "map3", s)

	assert.Equal(t, "player_1", snap.ID)
	assert.Equal(t, "map3", snap.MapID)
	assert.Equal(t, 90, snap.HP)

	s.Daggers[0].Spin = 999
	assert.Equal(t, 3.0, snap.Daggers[0].Spin, "snapshot must not alias live state")
}

func TestSnapshot_WireShape(t *testing.T) {
	snap := NewSnapshot("p1", "map19", State{X: 1, Y: 2, HP: 100, HPMax: 100, Daggers: []Dagger{{Index: 0, Spin: 1}}})
	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"id", "map_id", "x", "y", "hp", "hp_max", "daggers"} {
		assert.Contains(t, decoded, key)
	}
}
