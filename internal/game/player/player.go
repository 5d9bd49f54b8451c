// Package player defines the gameplay state carried per session: position,
// health, and the equipped dagger configuration.
package player

// Dagger is one weapon slot in a player's equipped configuration.
type Dagger struct {
	// Index is the slot position within the configuration.
	Index int `json:"index"`
	// Spin is the slot's current spin value, mutable mid-match.
	Spin float64 `json:"spin"`
}

// State is the last-known gameplay state for one session.
type State struct {
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	HP      int      `json:"hp"`
	HPMax   int      `json:"hp_max"`
	Daggers []Dagger `json:"daggers"`
}

// Snapshot is a State annotated with its owner and map, in the shape handed
// to newly joining players and to lobby load events.
type Snapshot struct {
	ID      string   `json:"id"`
	MapID   string   `json:"map_id"`
	X       float64  `json:"x"`
	Y       float64  `json:"y"`
	HP      int      `json:"hp"`
	HPMax   int      `json:"hp_max"`
	Daggers []Dagger `json:"daggers"`
}

// NewSnapshot builds a Snapshot of state for the given session id and map.
//
// Postcondition: The returned Snapshot owns its own dagger slice; later
// mutation of state does not alias into it.
func NewSnapshot(id, mapID string, state State) Snapshot {
	daggers := make([]Dagger, len(state.Daggers))
	copy(daggers, state.Daggers)
	return Snapshot{
		ID:      id,
		MapID:   mapID,
		X:       state.X,
		Y:       state.Y,
		HP:      state.HP,
		HPMax:   state.HPMax,
		Daggers: daggers,
	}
}

// StatePatch is a partial update to a State. Only the fixed set of recognized
// fields can appear; anything else in the wire payload is dropped during
// unmarshalling. Nil pointer fields are absent and leave the stored value
// untouched.
type StatePatch struct {
	X       *float64 `json:"x"`
	Y       *float64 `json:"y"`
	HP      *int     `json:"hp"`
	HPMax   *int     `json:"hp_max"`
	Daggers []Dagger `json:"daggers"`
}

// Apply overwrites the fields of s that the patch carries.
//
// Precondition: s must be non-nil.
func (p StatePatch) Apply(s *State) {
	if p.X != nil {
		s.X = *p.X
	}
	if p.Y != nil {
		s.Y = *p.Y
	}
	if p.HP != nil {
		s.HP = *p.HP
	}
	if p.HPMax != nil {
		s.HPMax = *p.HPMax
	}
	if p.Daggers != nil {
		s.Daggers = p.Daggers
	}
}

// Empty reports whether the patch carries no fields at all.
func (p StatePatch) Empty() bool {
	return p.X == nil && p.Y == nil && p.HP == nil && p.HPMax == nil && p.Daggers == nil
}
