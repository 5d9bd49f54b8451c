// Package lobby implements the fixed-capacity matchmaking state machine that
// gates entry into a versus match on the designated multiplayer map.
package lobby

import "errors"

// ErrClosed is returned by Join when the lobby is full or no longer waiting.
var ErrClosed = errors.New("lobby is full or game already started")

// State is the lobby phase.
type State string

const (
	// StateWaiting accepts members until capacity is reached.
	StateWaiting State = "waiting"
	// StateStarting awaits asset-ready signals from every member.
	StateStarting State = "starting"
	// StateRunning means the match simulation is active.
	StateRunning State = "running"
)

// Lobby is the matchmaking group for one map. At most one lobby exists per
// map at a time; the owning Manager deletes it once empty.
//
// Lobby is not safe for concurrent use; the dispatcher serializes access.
type Lobby struct {
	mapID    string
	capacity int
	members  []string
	ready    map[string]struct{}
	state    State
}

// New creates a waiting lobby for mapID.
//
// Precondition: capacity must be >= 2.
func New(mapID string, capacity int) *Lobby {
	return &Lobby{
		mapID:    mapID,
		capacity: capacity,
		ready:    make(map[string]struct{}),
		state:    StateWaiting,
	}
}

// MapID returns the map this lobby gates.
func (l *Lobby) MapID() string { return l.mapID }

// State returns the current phase.
func (l *Lobby) State() State { return l.state }

// Capacity returns the fixed member capacity.
func (l *Lobby) Capacity() int { return l.capacity }

// MemberCount returns the current number of members.
func (l *Lobby) MemberCount() int { return len(l.members) }

// Members returns the member session ids in join order.
func (l *Lobby) Members() []string {
	out := make([]string, len(l.members))
	copy(out, l.members)
	return out
}

// IsMember reports whether id is currently a member.
func (l *Lobby) IsMember(id string) bool {
	for _, m := range l.members {
		if m == id {
			return true
		}
	}
	return false
}

// Empty reports whether the lobby has no members.
func (l *Lobby) Empty() bool { return len(l.members) == 0 }

// JoinResult describes a successful admission.
type JoinResult struct {
	// PlayerCount is the membership size after the join.
	PlayerCount int
	// Capacity is the fixed lobby capacity.
	Capacity int
	// Starting is true when this join filled the lobby and the state
	// advanced from waiting to starting.
	Starting bool
}

// Join admits id into a waiting lobby. Joining again with an id that is
// already a member is idempotent.
//
// The waiting → starting transition fires the instant membership reaches
// capacity, exactly once.
//
// Postcondition: On success, MemberCount() <= Capacity(). Returns ErrClosed
// when the lobby is full or not waiting; membership is then unchanged.
func (l *Lobby) Join(id string) (JoinResult, error) {
	if l.state != StateWaiting || len(l.members) >= l.capacity {
		return JoinResult{}, ErrClosed
	}

	if !l.IsMember(id) {
		l.members = append(l.members, id)
	}

	res := JoinResult{PlayerCount: len(l.members), Capacity: l.capacity}
	if len(l.members) == l.capacity {
		l.state = StateStarting
		res.Starting = true
	}
	return res, nil
}

// MarkReady records an asset-ready signal from a member while starting.
//
// Postcondition: Returns ok=false (and changes nothing) when the lobby is not
// starting or id is not a member, preserving ready ⊆ members. allReady is
// true exactly when this signal completed the ready set; the state is then
// running.
func (l *Lobby) MarkReady(id string) (allReady, ok bool) {
	if l.state != StateStarting || !l.IsMember(id) {
		return false, false
	}

	l.ready[id] = struct{}{}
	if len(l.ready) == len(l.members) {
		l.state = StateRunning
		return true, true
	}
	return false, true
}

// ReadyCount returns the number of members that signalled ready.
func (l *Lobby) ReadyCount() int { return len(l.ready) }

// LeaveResult describes the consequences of a member removal.
type LeaveResult struct {
	// WasMember is false when id was not in the lobby; nothing changed.
	WasMember bool
	// PlayerCount is the membership size after removal.
	PlayerCount int
	// Empty is true when the last member left; the caller deletes the lobby.
	Empty bool
	// Reverted is true when a starting lobby dropped below capacity and
	// regressed to waiting, clearing the ready set.
	Reverted bool
	// Running is true when the lobby was running at the time of removal.
	Running bool
}

// Remove takes id out of the membership list and ready set.
//
// This is the single permitted state regression: starting → waiting, firing
// when removal drops a starting lobby below capacity.
func (l *Lobby) Remove(id string) LeaveResult {
	idx := -1
	for i, m := range l.members {
		if m == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return LeaveResult{PlayerCount: len(l.members)}
	}

	l.members = append(l.members[:idx], l.members[idx+1:]...)
	delete(l.ready, id)

	res := LeaveResult{
		WasMember:   true,
		PlayerCount: len(l.members),
		Empty:       len(l.members) == 0,
		Running:     l.state == StateRunning,
	}

	if l.state == StateStarting && len(l.members) < l.capacity {
		l.state = StateWaiting
		clear(l.ready)
		res.Reverted = true
	}
	return res
}

// Manager owns the at-most-one lobby per map.
//
// Manager is not safe for concurrent use; the dispatcher serializes access.
type Manager struct {
	capacity int
	lobbies  map[string]*Lobby
}

// NewManager creates a Manager producing lobbies of the given capacity.
//
// Precondition: capacity must be >= 2.
func NewManager(capacity int) *Manager {
	return &Manager{
		capacity: capacity,
		lobbies:  make(map[string]*Lobby),
	}
}

// Get returns the lobby for mapID, if one exists.
func (m *Manager) Get(mapID string) (*Lobby, bool) {
	l, ok := m.lobbies[mapID]
	return l, ok
}

// GetOrCreate returns the lobby for mapID, creating a waiting one lazily.
func (m *Manager) GetOrCreate(mapID string) *Lobby {
	if l, ok := m.lobbies[mapID]; ok {
		return l
	}
	l := New(mapID, m.capacity)
	m.lobbies[mapID] = l
	return l
}

// Delete removes the lobby for mapID.
func (m *Manager) Delete(mapID string) {
	delete(m.lobbies, mapID)
}
