package gameserver

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/game/lobby"
	"github.com/GuySandler/orbitaldaggers/internal/game/session"
	"github.com/GuySandler/orbitaldaggers/internal/observability"
)

// Broadcaster fans outbound messages to sessions by map or lobby membership.
// Delivery is best effort: a failed send is counted and logged, never
// retried, and never fails the triggering operation.
type Broadcaster struct {
	registry *session.Registry
	logger   *zap.Logger
}

// NewBroadcaster creates a Broadcaster over the given registry.
//
// Precondition: registry and logger must be non-nil.
func NewBroadcaster(registry *session.Registry, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{registry: registry, logger: logger}
}

// SendTo marshals msg and sends it to a single session.
func (b *Broadcaster) SendTo(sess *session.Session, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshalling outbound message", zap.Error(err))
		return
	}
	b.deliver(sess, payload)
}

// ToMap sends msg to every open session on mapID, skipping excludeID when
// non-empty.
func (b *Broadcaster) ToMap(mapID string, msg any, excludeID string) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshalling outbound message", zap.Error(err))
		return
	}
	for _, sess := range b.registry.OnMap(mapID, excludeID) {
		b.deliver(sess, payload)
	}
}

// ToLobby sends msg to every current member of l.
func (b *Broadcaster) ToLobby(l *lobby.Lobby, msg any) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("marshalling outbound message", zap.Error(err))
		return
	}
	for _, id := range l.Members() {
		if sess, ok := b.registry.Get(id); ok {
			b.deliver(sess, payload)
		}
	}
}

func (b *Broadcaster) deliver(sess *session.Session, payload []byte) {
	if sess.Conn == nil || !sess.Conn.IsOpen() {
		return
	}
	if err := sess.Conn.Send(payload); err != nil {
		observability.SendFailures.Inc()
		b.logger.Warn("sending frame",
			zap.String("session_id", sess.ID),
			zap.Error(err))
		return
	}
	observability.BroadcastsSent.Inc()
}
