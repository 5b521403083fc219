// Package ws is the websocket and REST surface of the server. It owns the
// upgrade path, the per-connection adapters and nothing else: every decision
// beyond transport belongs to the services.
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"babelchat/errors"

	"github.com/gorilla/websocket"
)

// WSConn adapts one gorilla connection to the delivery core. The write mutex
// is the whole point: the registry hands the same connection to the drain
// loop, the live push worker and the broadcaster, and gorilla allows only one
// concurrent writer.
//
// Reads go through a dedicated pump goroutine. Gorilla treats an expired read
// deadline as fatal to the connection, so the poller can never put deadlines
// on the shared socket; instead the pump is the sole reader and ReadFrame
// just waits on its signals.
type WSConn struct {
	writeMu sync.Mutex
	conn    *websocket.Conn

	pumpOnce sync.Once
	frames   chan struct{}
	dead     chan struct{}
	readErr  error
}

func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{
		conn:   conn,
		frames: make(chan struct{}),
		dead:   make(chan struct{}),
	}
}

func (c *WSConn) WriteText(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *WSConn) WriteJSON(v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.WriteText(payload)
}

// readPump is the only goroutine reading the socket. Payloads are discarded:
// an inbound frame is nothing but a wake-up signal for whoever sits in
// ReadFrame. The first read error is terminal, the pump records it and exits.
func (c *WSConn) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			c.readErr = err
			close(c.dead)
			return
		}
		select {
		case c.frames <- struct{}{}:
		default:
			// Nobody is waiting, the frame already served as a heartbeat.
		}
	}
}

// ReadFrame blocks for at most timeout waiting for any inbound frame. The
// expiry comes back as ErrIdleTimeout so callers can tell "peer is quiet"
// from "peer is gone"; once the peer is gone every later call returns the
// same socket error immediately.
func (c *WSConn) ReadFrame(timeout time.Duration) error {
	c.pumpOnce.Do(func() { go c.readPump() })

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.frames:
		return nil
	case <-c.dead:
		return c.readErr
	case <-timer.C:
		return errors.ErrIdleTimeout
	}
}

// Close unblocks the pump: the underlying read fails and the terminal error
// propagates to any waiting ReadFrame.
func (c *WSConn) Close() error {
	return c.conn.Close()
}
