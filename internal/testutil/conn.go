// Package testutil provides shared test doubles for the relay server.
package testutil

import (
	"encoding/json"
	"fmt"
)

// FakeConn is an in-memory session.Conn implementation that records every
// frame sent to it.
type FakeConn struct {
	ConnID  string
	Open    bool
	SendErr error
	frames  [][]byte
}

// NewFakeConn creates an open FakeConn with the given connection id.
func NewFakeConn(id string) *FakeConn {
	return &FakeConn{ConnID: id, Open: true}
}

// ID returns the connection id.
func (c *FakeConn) ID() string { return c.ConnID }

// IsOpen reports whether the connection is open.
func (c *FakeConn) IsOpen() bool { return c.Open }

// Send records the frame. Returns SendErr when set.
func (c *FakeConn) Send(payload []byte) error {
	if c.SendErr != nil {
		return c.SendErr
	}
	frame := make([]byte, len(payload))
	copy(frame, payload)
	c.frames = append(c.frames, frame)
	return nil
}

// Close marks the connection closed.
func (c *FakeConn) Close() error {
	c.Open = false
	return nil
}

// Frames returns every frame sent so far.
func (c *FakeConn) Frames() [][]byte {
	return c.frames
}

// Reset discards recorded frames.
func (c *FakeConn) Reset() {
	c.frames = nil
}

// Types returns the "type" field of every recorded frame, in order.
func (c *FakeConn) Types() []string {
	types := make([]string, 0, len(c.frames))
	for _, frame := range c.frames {
		var envelope struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(frame, &envelope); err != nil {
			types = append(types, fmt.Sprintf("<unparsable: %v>", err))
			continue
		}
		types = append(types, envelope.Type)
	}
	return types
}

// Decoded unmarshals every recorded frame into a generic map, in order.
func (c *FakeConn) Decoded() ([]map[string]any, error) {
	out := make([]map[string]any, 0, len(c.frames))
	for _, frame := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(frame, &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// LastOfType returns the most recent frame whose "type" field equals typ,
// decoded into a generic map, or nil if none was sent.
func (c *FakeConn) LastOfType(typ string) map[string]any {
	decoded, err := c.Decoded()
	if err != nil {
		return nil
	}
	for i := len(decoded) - 1; i >= 0; i-- {
		if decoded[i]["type"] == typ {
			return decoded[i]
		}
	}
	return nil
}

// CountOfType returns how many recorded frames carry the given type.
func (c *FakeConn) CountOfType(typ string) int {
	n := 0
	for _, t := range c.Types() {
		if t == typ {
			n++
		}
	}
	return n
}
