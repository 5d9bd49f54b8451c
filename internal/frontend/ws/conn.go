// Package ws is the WebSocket transport: it upgrades HTTP requests, pumps
// inbound frames into the dispatcher, and reports disconnects.
package ws

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn wraps a WebSocket connection behind the transport interface the game
// core depends on. Writes are serialized by a mutex because gorilla/websocket
// permits only one concurrent writer.
type Conn struct {
	id           string
	ws           *websocket.Conn
	writeTimeout time.Duration

	writeMu sync.Mutex
	open    atomic.Bool
}

func newConn(ws *websocket.Conn, writeTimeout time.Duration) *Conn {
	c := &Conn{
		id:           uuid.NewString(),
		ws:           ws,
		writeTimeout: writeTimeout,
	}
	c.open.Store(true)
	return c
}

// ID returns the connection identifier, distinct from any player id.
func (c *Conn) ID() string { return c.id }

// IsOpen reports whether the connection can still deliver frames.
func (c *Conn) IsOpen() bool { return c.open.Load() }

// Send writes one text frame under the configured write deadline.
func (c *Conn) Send(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.writeTimeout > 0 {
		if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		// A failed write means the peer is gone; stop offering frames.
		c.open.Store(false)
		return err
	}
	return nil
}

// Close marks the connection closed and tears down the socket. Safe to call
// more than once.
func (c *Conn) Close() error {
	c.open.Store(false)
	return c.ws.Close()
}
