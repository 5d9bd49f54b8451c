package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GuySandler/orbitaldaggers/internal/gameserver"
	"github.com/GuySandler/orbitaldaggers/internal/observability"
)

// Handler upgrades HTTP requests to WebSocket connections and runs the read
// loop for each one. One goroutine per connection; all game logic runs inside
// the dispatcher.
type Handler struct {
	logger       *zap.Logger
	svc          *gameserver.Service
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewHandler creates a Handler feeding the given dispatcher.
//
// Precondition: logger and svc must be non-nil.
func NewHandler(logger *zap.Logger, svc *gameserver.Service, writeTimeout time.Duration) *Handler {
	return &Handler{
		logger:       logger,
		svc:          svc,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The game client is served from a different origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and pumps frames until the peer goes away.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err))
		return
	}

	conn := newConn(wsConn, h.writeTimeout)
	observability.ConnectedClients.Inc()
	h.logger.Info("client connected",
		zap.String("conn_id", conn.ID()),
		zap.String("remote_addr", r.RemoteAddr))

	h.readLoop(conn, wsConn)
}

// readLoop feeds inbound text frames to the dispatcher. When the read side
// ends the connection is closed first, so teardown broadcasts never target
// the departing socket, then the dispatcher unwinds the session exactly once.
func (h *Handler) readLoop(conn *Conn, wsConn *websocket.Conn) {
	reason := ""
	defer func() {
		_ = conn.Close()
		observability.ConnectedClients.Dec()
		h.svc.HandleDisconnect(conn, reason)
		h.logger.Info("client disconnected",
			zap.String("conn_id", conn.ID()),
			zap.String("reason", reason))
	}()

	for {
		msgType, payload, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				reason = gameserver.DisconnectReasonError
				h.logger.Warn("websocket read error",
					zap.String("conn_id", conn.ID()),
					zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		h.svc.HandleMessage(conn, payload)
	}
}
