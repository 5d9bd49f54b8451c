// Package session provides session records and the registry that owns
// identity assignment, reclaim, and map presence for connected players.
package session

import (
	"time"

	"github.com/GuySandler/orbitaldaggers/internal/game/player"
)

// Conn is the transport collaborator: a bidirectional text-frame channel.
// Framing and liveness detection belong to the implementation; the core only
// needs a send primitive and an open predicate.
type Conn interface {
	// ID identifies the physical connection, not the player.
	ID() string
	// IsOpen reports whether the transport can still deliver frames.
	IsOpen() bool
	// Send writes one text frame. Best effort; an error means the frame was
	// not delivered.
	Send(payload []byte) error
	// Close tears down the transport.
	Close() error
}

// Session is the server-side record for one logical player. A session id may
// outlive a physical connection only transiently, during identity reclaim.
type Session struct {
	// ID is the session identifier ("player_<n>" when server-assigned).
	ID string
	// Conn is the owning connection handle.
	Conn Conn
	// MapID is the current map, empty until a join completes.
	MapID string
	// State is the last-known gameplay state.
	State player.State

	// lastHitFrom maps attacker session id to the time of the last accepted
	// hit from that attacker.
	lastHitFrom map[string]time.Time
}

// LastHitFrom returns the time of the last accepted hit from attackerID.
//
// Postcondition: Returns (zero, false) if no hit from attackerID was accepted.
func (s *Session) LastHitFrom(attackerID string) (time.Time, bool) {
	t, ok := s.lastHitFrom[attackerID]
	return t, ok
}

// RecordHit stores the acceptance time of a hit from attackerID.
func (s *Session) RecordHit(attackerID string, at time.Time) {
	if s.lastHitFrom == nil {
		s.lastHitFrom = make(map[string]time.Time)
	}
	s.lastHitFrom[attackerID] = at
}
