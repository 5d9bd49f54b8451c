package session

import (
	"fmt"

	"github.com/GuySandler/orbitaldaggers/internal/game/player"
)

// Registry is the single access point for session records, the mirrored
// snapshot lookup, and identity assignment.
//
// Registry is not safe for concurrent use: the message dispatcher serializes
// all access, including disconnect handling, on its own mutex. Creation and
// teardown stay symmetric because every mutation flows through here.
type Registry struct {
	sessions map[string]*Session
	byConn   map[string]string // connection id → session id
	mirror   map[string]player.Snapshot
	nextID   int
	defaults player.State
}

// NewRegistry creates an empty Registry. New sessions start from defaults
// until a join overwrites position or daggers.
func NewRegistry(defaults player.State) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		byConn:   make(map[string]string),
		mirror:   make(map[string]player.Snapshot),
		defaults: defaults,
	}
}

// Resolve decides which session id a join on conn should use.
//
// The rules, in order:
//  1. A connection that already owns a session keeps its id.
//  2. An unowned requested id is granted.
//  3. A requested id owned by this same connection is re-confirmed.
//  4. A requested id owned by a connection that is no longer open evicts the
//     stale session; its record is returned so the caller can unwind lobby
//     and map state and carry the gameplay state forward.
//  5. A requested id owned by a live connection is denied; a fresh synthetic
//     id is generated instead.
//
// Postcondition: The returned id is non-empty. evicted is non-nil only in
// case 4, and is already removed from the registry.
func (r *Registry) Resolve(conn Conn, requestedID string) (id string, evicted *Session) {
	if sid, ok := r.byConn[conn.ID()]; ok {
		return sid, nil
	}

	if requestedID != "" {
		owner, ok := r.sessions[requestedID]
		switch {
		case !ok:
			return requestedID, nil
		case owner.Conn.ID() == conn.ID():
			return requestedID, nil
		case !owner.Conn.IsOpen():
			r.removeLocked(requestedID)
			return requestedID, owner
		default:
			return r.generateID(), nil
		}
	}

	return r.generateID(), nil
}

// Bind creates or updates the session for id on conn and places it on mapID.
// prior, when non-nil, seeds the gameplay state (identity reclaim continuity);
// otherwise a brand-new session starts from the registry defaults.
//
// Postcondition: Get(id) returns a session whose Conn is conn and whose MapID
// is mapID. The mirrored snapshot is refreshed.
func (r *Registry) Bind(conn Conn, id, mapID string, prior *player.State) *Session {
	sess, ok := r.sessions[id]
	if !ok {
		state := r.defaults
		state.Daggers = append([]player.Dagger(nil), r.defaults.Daggers...)
		if prior != nil {
			state = *prior
		}
		sess = &Session{ID: id, State: state}
		r.sessions[id] = sess
	}

	if sess.Conn != nil && sess.Conn.ID() != conn.ID() {
		delete(r.byConn, sess.Conn.ID())
	}
	sess.Conn = conn
	sess.MapID = mapID
	r.byConn[conn.ID()] = id
	r.RefreshSnapshot(id)
	return sess
}

// Get returns the session for id.
func (r *Registry) Get(id string) (*Session, bool) {
	sess, ok := r.sessions[id]
	return sess, ok
}

// IDByConn returns the session id bound to the given connection id.
func (r *Registry) IDByConn(connID string) (string, bool) {
	id, ok := r.byConn[connID]
	return id, ok
}

// Remove deletes the session for id from all tracking.
//
// Postcondition: Returns the removed session, or nil if id was not registered.
func (r *Registry) Remove(id string) *Session {
	sess, ok := r.sessions[id]
	if !ok {
		return nil
	}
	r.removeLocked(id)
	return sess
}

// RemoveByConn deletes the session bound to connID, if any.
func (r *Registry) RemoveByConn(connID string) *Session {
	id, ok := r.byConn[connID]
	if !ok {
		return nil
	}
	return r.Remove(id)
}

func (r *Registry) removeLocked(id string) {
	sess := r.sessions[id]
	if sess != nil && sess.Conn != nil {
		delete(r.byConn, sess.Conn.ID())
	}
	delete(r.sessions, id)
	delete(r.mirror, id)
}

// RefreshSnapshot rebuilds the mirrored snapshot for id from its live state.
// No-op when id is not registered.
func (r *Registry) RefreshSnapshot(id string) {
	sess, ok := r.sessions[id]
	if !ok {
		return
	}
	r.mirror[id] = player.NewSnapshot(id, sess.MapID, sess.State)
}

// Snapshot returns the mirrored snapshot for id.
func (r *Registry) Snapshot(id string) (player.Snapshot, bool) {
	snap, ok := r.mirror[id]
	return snap, ok
}

// OnMap returns the sessions currently on mapID, excluding excludeID when
// non-empty.
func (r *Registry) OnMap(mapID, excludeID string) []*Session {
	var out []*Session
	for id, sess := range r.sessions {
		if sess.MapID != mapID {
			continue
		}
		if excludeID != "" && id == excludeID {
			continue
		}
		out = append(out, sess)
	}
	return out
}

// SnapshotsOnMap returns the mirrored snapshots of every session on mapID,
// excluding excludeID when non-empty.
func (r *Registry) SnapshotsOnMap(mapID, excludeID string) []player.Snapshot {
	var out []player.Snapshot
	for id, sess := range r.sessions {
		if sess.MapID != mapID {
			continue
		}
		if excludeID != "" && id == excludeID {
			continue
		}
		if snap, ok := r.mirror[id]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	return len(r.sessions)
}

func (r *Registry) generateID() string {
	r.nextID++
	return fmt.Sprintf("player_%d", r.nextID)
}
