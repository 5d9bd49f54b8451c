package gameserver

import (
	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/game/session"
)

// handlePlayerUpdate applies a partial state patch and relays the reduced
// position-and-health view to everyone else on the sender's map.
func (s *Service) handlePlayerUpdate(conn session.Conn, msg clientMessage) {
	sess := s.sessionFor(conn)
	if sess == nil {
		s.logger.Warn("player_update before join, ignoring",
			zap.String("conn_id", conn.ID()))
		return
	}

	if msg.Data != nil {
		msg.Data.Apply(&sess.State)
		s.registry.RefreshSnapshot(sess.ID)
	}

	s.broadcast.ToMap(sess.MapID, gameStateUpdate{
		Type: TypeGameStateUpdate,
		PlayerData: reducedState{
			ID:    sess.ID,
			X:     sess.State.X,
			Y:     sess.State.Y,
			HP:    sess.State.HP,
			HPMax: sess.State.HPMax,
		},
	}, sess.ID)
}

// handleSpinChange mutates one equipped dagger's spin and relays the change
// to map peers.
func (s *Service) handleSpinChange(conn session.Conn, msg clientMessage) {
	sess := s.sessionFor(conn)
	if sess == nil {
		s.logger.Warn("action_spin_change before join, ignoring",
			zap.String("conn_id", conn.ID()))
		return
	}
	if msg.DaggerIndex == nil || msg.NewSpin == nil {
		s.logger.Warn("malformed action_spin_change, ignoring",
			zap.String("session_id", sess.ID))
		return
	}

	idx := *msg.DaggerIndex
	if idx < 0 || idx >= len(sess.State.Daggers) {
		s.logger.Warn("action_spin_change for unequipped slot, ignoring",
			zap.String("session_id", sess.ID),
			zap.Int("dagger_index", idx))
		return
	}

	sess.State.Daggers[idx].Spin = *msg.NewSpin
	s.registry.RefreshSnapshot(sess.ID)

	s.broadcast.ToMap(sess.MapID, daggerSpinUpdate{
		Type:        TypeDaggerSpinUpdate,
		PlayerID:    sess.ID,
		DaggerIndex: idx,
		NewSpin:     *msg.NewSpin,
	}, sess.ID)
}
