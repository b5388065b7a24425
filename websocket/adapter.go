// Package websocket adapts a gorilla WebSocket connection to the transport
// contract the core expects: send bytes, notify on open, message, and close.
package websocket

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"drawtogether-server/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// ErrSendBufferFull is returned when a client's outbound queue is saturated.
var ErrSendBufferFull = errors.New("websocket: send buffer full")

// Conn wraps one client connection with a buffered outbound queue and the
// usual read/write pumps.
type Conn struct {
	id      string
	ws      *websocket.Conn
	send    chan []byte
	handler domain.SessionHandler
}

func NewConn(id string, ws *websocket.Conn, h domain.SessionHandler) *Conn {
	return &Conn{
		id:      id,
		ws:      ws,
		send:    make(chan []byte, 256),
		handler: h,
	}
}

func (c *Conn) ID() string { return c.id }

// Send queues data for delivery without blocking. Delivery is best-effort: a
// saturated or closing connection drops the frame.
func (c *Conn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) Close() error {
	return c.ws.Close()
}

// Start notifies the handler that the connection is open and launches the
// pumps. The close notification fires exactly once, when the read pump exits.
func (c *Conn) Start() {
	c.handler.HandleOpen(c)
	go c.writePump()
	go c.readPump()
}

func (c *Conn) readPump() {
	defer func() {
		c.handler.HandleClose(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("read error", "connId", c.id, "error", err)
			}
			return
		}
		c.handler.HandleMessage(c, data)
	}
}

func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
