package hub

import (
	"time"

	"github.com/gorilla/websocket"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/CodeMark24/sample-e-voting-platform/auth"
	"github.com/CodeMark24/sample-e-voting-platform/logging"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	maxFrameSize  = 4096
	sendQueueSize = 32
)

// Client is one live connection. Its identity field is owned by the hub
// loop; the pumps only move bytes.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// nil until the connection authenticates. Read and written only
	// from the hub loop.
	identity *auth.Identity
}

func newClient(h *Hub, conn *websocket.Conn) *Client {
	id, err := gonanoid.New(8)
	if err != nil {
		id = "conn"
	}
	return &Client{
		id:   id,
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}
}

// queue hands a frame to the write pump without blocking. A full queue
// means the peer is slow or dead; the frame is dropped, per the
// at-most-once delivery contract.
func (c *Client) queue(payload []byte) bool {
	select {
	case c.send <- payload:
		return true
	default:
		logging.Log.Warnf("HUB: dropping frame for slow connection %s", c.id)
		return false
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Log.Warnf("HUB: connection %s read error: %v", c.id, err)
			}
			return
		}
		c.hub.inbound <- inboundFrame{client: c, payload: payload}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				// Dead peer; readPump will deregister the connection.
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
