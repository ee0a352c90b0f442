// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/biozilla/internal/gallery"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
)

// clientIDCounter gives clients a stable broadcast order.
var clientIDCounter atomic.Uint64

// Client is one websocket connection.
type Client struct {
	id     uint64
	hub    *Hub
	conn   *websocket.Conn
	email  string
	search *gallery.Debouncer[SearchRequest]

	mu     sync.Mutex
	send   chan Message
	done   chan struct{}
	closed bool
}

// NewClient wraps conn. Search messages are debounced per client.
func NewClient(hub *Hub, conn *websocket.Conn, email string) *Client {
	c := &Client{
		id:    clientIDCounter.Add(1),
		hub:   hub,
		conn:  conn,
		email: email,
		send:  make(chan Message, 256),
		done:  make(chan struct{}),
	}
	if hub.search != nil {
		c.search = gallery.NewDebouncer(hub.debounce, func(req SearchRequest) {
			hub.runSearch(c, req)
		})
	}
	return c
}

// ID returns the client's broadcast order key.
func (c *Client) ID() uint64 {
	return c.id
}

// trySend queues msg without blocking. It reports false when the client is
// closed or its buffer is full.
func (c *Client) trySend(msg Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// close ends the write pump. Safe to call more than once.
func (c *Client) close() {
	if c.search != nil {
		c.search.Stop()
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
		close(c.done)
	}
}

func (c *Client) handle(raw []byte) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		metrics.WSErrors.WithLabelValues("decode").Inc()
		c.trySend(Message{Type: MessageTypeError, Data: "malformed message"})
		return
	}
	metrics.RecordWSMessage(msg.Type, false)

	switch msg.Type {
	case MessageTypePing:
		c.trySend(Message{Type: MessageTypePong})
	case MessageTypeSearch:
		if c.search == nil {
			c.trySend(Message{Type: MessageTypeError, Data: "search is not available"})
			return
		}
		var req SearchRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.trySend(Message{Type: MessageTypeError, Data: "malformed search"})
			return
		}
		c.search.Trigger(req)
	default:
		c.trySend(Message{Type: MessageTypeError, Data: "unknown message type"})
	}
}

// readPump reads client frames until the connection fails.
func (c *Client) readPump() {
	defer func() {
		// The hub may have closed the client already, during shutdown.
		select {
		case c.hub.Unregister <- c:
		case <-c.done:
		}
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Error().Err(err).Uint64("client", c.id).Msg("unexpected websocket close error")
			}
			return
		}
		c.handle(raw)
	}
}

// writePump writes queued messages and keepalive pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logging.Error().Err(err).Str("message_type", msg.Type).Msg("failed to encode websocket message")
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				metrics.WSErrors.WithLabelValues("write").Inc()
				return
			}
			metrics.RecordWSMessage(msg.Type, true)

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Start runs the read and write pumps.
func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}
