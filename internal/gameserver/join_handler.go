package gameserver

import (
	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/game/lobby"
	"github.com/GuySandler/orbitaldaggers/internal/game/player"
	"github.com/GuySandler/orbitaldaggers/internal/game/session"
	"github.com/GuySandler/orbitaldaggers/internal/observability"
)

// handleJoinMap runs the join pipeline: identity resolution, session
// creation or rebind, map placement, and lobby admission for versus maps.
func (s *Service) handleJoinMap(conn session.Conn, msg clientMessage) {
	if msg.MapID == "" {
		s.logger.Warn("join_map without map_id", zap.String("conn_id", conn.ID()))
		return
	}

	id, evicted := s.registry.Resolve(conn, msg.RequestedPlayerID)
	var prior *session.Session
	if evicted != nil {
		s.logger.Info("reclaimed id from stale connection",
			zap.String("session_id", id),
			zap.String("stale_conn_id", evicted.Conn.ID()))
		s.unwindEvicted(evicted)
		prior = evicted
	}
	if msg.RequestedPlayerID != "" && id != msg.RequestedPlayerID && prior == nil {
		s.logger.Info("requested id in use, assigned fresh id",
			zap.String("requested_id", msg.RequestedPlayerID),
			zap.String("session_id", id))
	}

	_, existed := s.registry.Get(id)
	var priorState *player.State
	if prior != nil {
		priorState = &prior.State
	}
	sess := s.registry.Bind(conn, id, msg.MapID, priorState)
	observability.ActiveSessions.Set(float64(s.registry.Count()))

	// Fresh sessions spawn at the map's spawn point when the catalog knows
	// the map; an explicit initial position always wins.
	if m, ok := s.catalog.Lookup(msg.MapID); ok {
		if !existed && prior == nil {
			sess.State.X = m.SpawnX
			sess.State.Y = m.SpawnY
		}
	} else {
		s.logger.Debug("join to uncataloged map",
			zap.String("session_id", id),
			zap.String("map_id", msg.MapID))
	}
	if msg.InitialX != nil {
		sess.State.X = *msg.InitialX
	}
	if msg.InitialY != nil {
		sess.State.Y = *msg.InitialY
	}
	if msg.Daggers != nil {
		sess.State.Daggers = msg.Daggers
	}
	s.registry.RefreshSnapshot(id)

	s.logger.Info("client joining map",
		zap.String("session_id", id),
		zap.String("map_id", msg.MapID))

	others := s.rosterOnMap(msg.MapID, id)

	if s.isVersusMap(msg.MapID) {
		s.admitToLobby(sess, others)
		return
	}

	s.broadcast.SendTo(sess, mapJoinedAck{
		Type:            TypeMapJoinedAck,
		Status:          "success",
		MapID:           msg.MapID,
		YourID:          id,
		ExistingPlayers: others,
	})
	s.announceJoined(sess)
}

// admitToLobby attempts lobby admission for a session already placed on a
// versus map. Denial leaves the session on the map but outside the lobby.
func (s *Service) admitToLobby(sess *session.Session, others []playerRef) {
	l := s.lobbies.GetOrCreate(sess.MapID)
	res, err := l.Join(sess.ID)
	if err != nil {
		s.logger.Info("lobby admission denied",
			zap.String("session_id", sess.ID),
			zap.String("map_id", sess.MapID),
			zap.String("state", string(l.State())))
		s.broadcast.SendTo(sess, errorMessage{Type: TypeError, Message: lobbyClosedMessage})
		return
	}

	s.broadcast.SendTo(sess, mapJoinedAck{
		Type:             TypeMapJoinedAck,
		Status:           "success",
		MapID:            sess.MapID,
		YourID:           sess.ID,
		ExistingPlayers:  others,
		LobbyPlayerCount: res.PlayerCount,
		LobbyMaxPlayers:  res.Capacity,
	})

	s.broadcast.ToLobby(l, lobbyUpdate{
		Type:        TypeLobbyUpdate,
		PlayerCount: res.PlayerCount,
		MaxPlayers:  res.Capacity,
	})

	s.announceToLobbyPeers(l, sess)

	if res.Starting {
		s.logger.Info("lobby full, loading match",
			zap.String("map_id", sess.MapID))
		s.broadcast.ToLobby(l, loadMatch{
			Type:            TypeLoadMatch,
			MapID:           sess.MapID,
			ExistingPlayers: s.lobbyRoster(l),
		})
	}
}

// announceJoined tells everyone else on the session's map about the arrival.
func (s *Service) announceJoined(sess *session.Session) {
	snap, ok := s.registry.Snapshot(sess.ID)
	if !ok {
		return
	}
	s.broadcast.ToMap(sess.MapID, playerJoined{
		Type:       TypePlayerJoined,
		PlayerID:   sess.ID,
		MapID:      sess.MapID,
		PlayerData: snap,
	}, sess.ID)
}

// announceToLobbyPeers tells the other lobby members about the arrival.
func (s *Service) announceToLobbyPeers(l *lobby.Lobby, sess *session.Session) {
	snap, ok := s.registry.Snapshot(sess.ID)
	if !ok {
		return
	}
	msg := playerJoined{
		Type:       TypePlayerJoined,
		PlayerID:   sess.ID,
		MapID:      sess.MapID,
		PlayerData: snap,
	}
	for _, id := range l.Members() {
		if id == sess.ID {
			continue
		}
		if peer, ok := s.registry.Get(id); ok {
			s.broadcast.SendTo(peer, msg)
		}
	}
}

// unwindEvicted silently removes a stale session's lobby membership. The
// registry entry is already gone; no departure events fire because the id is
// being reclaimed, not released.
func (s *Service) unwindEvicted(evicted *session.Session) {
	if evicted.MapID == "" {
		return
	}
	if l, ok := s.lobbies.Get(evicted.MapID); ok {
		l.Remove(evicted.ID)
		if l.Empty() {
			s.lobbies.Delete(evicted.MapID)
		}
	}
}

// isVersusMap reports whether joins to mapID are gated by a lobby, either as
// the configured multiplayer map or flagged as an arena in the catalog.
func (s *Service) isVersusMap(mapID string) bool {
	if mapID == s.cfg.MultiplayerMapID {
		return true
	}
	m, ok := s.catalog.Lookup(mapID)
	return ok && m.Arena
}

// rosterOnMap builds the existing-player listing for mapID, excluding
// excludeID.
func (s *Service) rosterOnMap(mapID, excludeID string) []playerRef {
	snaps := s.registry.SnapshotsOnMap(mapID, excludeID)
	refs := make([]playerRef, 0, len(snaps))
	for _, snap := range snaps {
		refs = append(refs, playerRef{PlayerID: snap.ID, PlayerData: snap})
	}
	return refs
}

// lobbyRoster builds the member listing for a lobby, in join order.
func (s *Service) lobbyRoster(l *lobby.Lobby) []playerRef {
	members := l.Members()
	refs := make([]playerRef, 0, len(members))
	for _, id := range members {
		if snap, ok := s.registry.Snapshot(id); ok {
			refs = append(refs, playerRef{PlayerID: id, PlayerData: snap})
		}
	}
	return refs
}
