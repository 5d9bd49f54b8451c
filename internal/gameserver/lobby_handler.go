package gameserver

import (
	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/game/session"
)

// handleMatchAssetsReady records a member's asset-ready signal. When the
// last member reports in, the lobby transitions to running and every member
// is told to start the simulation.
func (s *Service) handleMatchAssetsReady(conn session.Conn) {
	sess := s.sessionFor(conn)
	if sess == nil || sess.MapID == "" {
		s.logger.Warn("match_assets_ready before join, ignoring",
			zap.String("conn_id", conn.ID()))
		return
	}

	l, ok := s.lobbies.Get(sess.MapID)
	if !ok {
		s.logger.Warn("match_assets_ready outside a lobby, ignoring",
			zap.String("session_id", sess.ID),
			zap.String("map_id", sess.MapID))
		return
	}

	allReady, ok := l.MarkReady(sess.ID)
	if !ok {
		s.logger.Warn("match_assets_ready not accepted",
			zap.String("session_id", sess.ID),
			zap.String("map_id", sess.MapID),
			zap.String("state", string(l.State())))
		return
	}

	s.logger.Info("player ready for match",
		zap.String("session_id", sess.ID),
		zap.String("map_id", sess.MapID),
		zap.Int("ready", l.ReadyCount()),
		zap.Int("members", l.MemberCount()))

	if allReady {
		s.logger.Info("all players ready, starting simulation",
			zap.String("map_id", sess.MapID))
		s.broadcast.ToLobby(l, startMatchSimulation{Type: TypeStartMatchSimulation})
	}
}
