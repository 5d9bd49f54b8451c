// Package gameserver implements the relay's message dispatcher: it parses
// inbound frames, routes them to handlers, and unwinds all per-session state
// on disconnect.
package gameserver

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/config"
	"github.com/GuySandler/orbitaldaggers/internal/game/combat"
	"github.com/GuySandler/orbitaldaggers/internal/game/lobby"
	"github.com/GuySandler/orbitaldaggers/internal/game/session"
	"github.com/GuySandler/orbitaldaggers/internal/game/world"
	"github.com/GuySandler/orbitaldaggers/internal/observability"
)

// invalidJSONMessage is the exact reply for unparsable inbound frames.
const invalidJSONMessage = "Invalid JSON message format."

// lobbyClosedMessage is the exact reply for a denied lobby admission.
const lobbyClosedMessage = "Lobby is full or game already started."

// lobbyRevertedStatus accompanies the occupancy update after a starting
// lobby regresses to waiting.
const lobbyRevertedStatus = "A player left, waiting for more..."

// DisconnectReasonError marks a teardown triggered by a transport error
// rather than an orderly close.
const DisconnectReasonError = "error"

// Service is the message dispatcher. All handler and teardown logic runs
// under a single mutex, so the game state packages it drives need no locking
// of their own.
type Service struct {
	mu sync.Mutex

	logger    *zap.Logger
	cfg       config.GameConfig
	catalog   *world.Catalog
	registry  *session.Registry
	lobbies   *lobby.Manager
	resolver  *combat.Resolver
	broadcast *Broadcaster
}

// NewService creates the dispatcher with the given collaborators.
//
// Precondition: All arguments must be non-nil and cfg must be validated.
func NewService(
	logger *zap.Logger,
	cfg config.GameConfig,
	catalog *world.Catalog,
	registry *session.Registry,
	lobbies *lobby.Manager,
	resolver *combat.Resolver,
) *Service {
	return &Service{
		logger:    logger,
		cfg:       cfg,
		catalog:   catalog,
		registry:  registry,
		lobbies:   lobbies,
		resolver:  resolver,
		broadcast: NewBroadcaster(registry, logger),
	}
}

// HandleMessage parses one inbound frame from conn and routes it by type.
//
// An unparsable frame earns an error reply and is otherwise ignored. A parsed
// frame with an unrecognized type is dropped silently. Handler failures never
// close the connection.
func (s *Service) HandleMessage(conn session.Conn, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var msg clientMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		observability.ParseFailures.Inc()
		s.logger.Warn("rejecting unparsable frame",
			zap.String("conn_id", conn.ID()),
			zap.Error(err))
		s.sendToConn(conn, errorMessage{Type: TypeError, Message: invalidJSONMessage})
		return
	}

	observability.MessagesDispatched.WithLabelValues(msg.Type).Inc()
	s.logger.Debug("dispatching message",
		zap.String("conn_id", conn.ID()),
		zap.String("type", msg.Type))

	switch msg.Type {
	case TypeJoinMap:
		s.handleJoinMap(conn, msg)
	case TypePlayerUpdate:
		s.handlePlayerUpdate(conn, msg)
	case TypeHitPlayer:
		s.handleHitPlayer(conn, msg)
	case TypeSpinChange:
		s.handleSpinChange(conn, msg)
	case TypeMatchAssetsReady:
		s.handleMatchAssetsReady(conn)
	default:
		s.logger.Debug("ignoring unknown message type",
			zap.String("conn_id", conn.ID()),
			zap.String("type", msg.Type))
	}
}

// HandleDisconnect unwinds every trace of the session bound to conn: registry
// entry, mirrored snapshot, lobby membership, and map presence, with the
// required departure notifications. Safe to call for connections that never
// completed a join.
//
// Postcondition: No registry or lobby state references the session, and its
// id is reclaimable.
func (s *Service) HandleDisconnect(conn session.Conn, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.registry.RemoveByConn(conn.ID())
	if sess == nil {
		s.logger.Debug("unidentified client disconnected",
			zap.String("conn_id", conn.ID()))
		return
	}
	observability.ActiveSessions.Set(float64(s.registry.Count()))

	s.logger.Info("client disconnected",
		zap.String("session_id", sess.ID),
		zap.String("map_id", sess.MapID),
		zap.String("reason", reason))

	if sess.MapID == "" {
		return
	}

	left := playerLeft{Type: TypePlayerLeft, PlayerID: sess.ID, Reason: reason}

	l, ok := s.lobbies.Get(sess.MapID)
	if !ok {
		s.broadcast.ToMap(sess.MapID, left, "")
		return
	}

	res := l.Remove(sess.ID)
	defer func() {
		if l.Empty() {
			s.lobbies.Delete(sess.MapID)
		}
	}()

	if !res.WasMember || res.Running {
		// Running lobbies and non-member bystanders notify the whole map.
		s.broadcast.ToMap(sess.MapID, left, "")
		return
	}

	s.broadcast.ToLobby(l, lobbyUpdate{
		Type:        TypeLobbyUpdate,
		PlayerCount: res.PlayerCount,
		MaxPlayers:  l.Capacity(),
	})
	s.broadcast.ToLobby(l, left)

	if res.Reverted {
		s.logger.Info("lobby reverted to waiting",
			zap.String("map_id", sess.MapID),
			zap.Int("player_count", res.PlayerCount))
		s.broadcast.ToLobby(l, lobbyUpdate{
			Type:        TypeLobbyUpdate,
			PlayerCount: res.PlayerCount,
			MaxPlayers:  l.Capacity(),
			StatusText:  lobbyRevertedStatus,
		})
	}
}

// sessionFor returns the identified session bound to conn, or nil when the
// connection has not completed a join.
func (s *Service) sessionFor(conn session.Conn) *session.Session {
	id, ok := s.registry.IDByConn(conn.ID())
	if !ok {
		return nil
	}
	sess, ok := s.registry.Get(id)
	if !ok {
		return nil
	}
	return sess
}

// sendToConn delivers a message to a connection that may not have a session
// yet, such as an error reply to an unidentified client.
func (s *Service) sendToConn(conn session.Conn, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("marshalling outbound message", zap.Error(err))
		return
	}
	if err := conn.Send(payload); err != nil {
		observability.SendFailures.Inc()
		s.logger.Warn("sending frame", zap.String("conn_id", conn.ID()), zap.Error(err))
	}
}
