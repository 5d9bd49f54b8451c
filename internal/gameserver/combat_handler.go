package gameserver

import (
	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/game/session"
)

// handleHitPlayer resolves a reported hit through the combat rules and, when
// accepted, broadcasts the authoritative health change to the whole map. A
// lethal hit additionally broadcasts the death, once.
func (s *Service) handleHitPlayer(conn session.Conn, msg clientMessage) {
	attacker := s.sessionFor(conn)
	if attacker == nil || attacker.MapID == "" {
		s.logger.Warn("hit_player from unidentified or mapless client, ignoring",
			zap.String("conn_id", conn.ID()))
		return
	}
	if msg.TargetID == "" || msg.Damage == nil {
		s.logger.Warn("malformed hit_player, ignoring",
			zap.String("session_id", attacker.ID))
		return
	}

	target, ok := s.registry.Get(msg.TargetID)
	if !ok {
		return
	}

	res, ok := s.resolver.ResolveHit(attacker, target, *msg.Damage)
	if !ok {
		return
	}
	s.registry.RefreshSnapshot(target.ID)

	s.logger.Info("hit applied",
		zap.String("attacker_id", res.AttackerID),
		zap.String("target_id", res.TargetID),
		zap.Int("damage", *msg.Damage),
		zap.Int("hp", res.HP))

	s.broadcast.ToMap(attacker.MapID, hpUpdate{
		Type:       TypeHPUpdate,
		PlayerID:   res.TargetID,
		HP:         res.HP,
		HPMax:      res.HPMax,
		AttackerID: res.AttackerID,
	}, "")

	if res.Died {
		s.logger.Info("player died",
			zap.String("target_id", res.TargetID),
			zap.String("killer_id", res.AttackerID))
		s.broadcast.ToMap(attacker.MapID, playerDied{
			Type:     TypePlayerDied,
			PlayerID: res.TargetID,
			KillerID: res.AttackerID,
		}, "")
	}
}
