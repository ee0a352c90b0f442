// Biozilla - Content Gallery and Analytics Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biozilla

package websocket

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/biozilla/internal/auth"
	"github.com/tomtom215/biozilla/internal/logging"
	"github.com/tomtom215/biozilla/internal/metrics"
	"github.com/tomtom215/biozilla/internal/models"
)

// Message types exchanged with clients.
const (
	MessageTypePing           = "ping"
	MessageTypePong           = "pong"
	MessageTypeCatalogChanged = "catalog_changed"
	MessageTypeAuthState      = "auth_state"
	MessageTypeSearch         = "search"
	MessageTypeSearchResults  = "search_results"
	MessageTypeError          = "error"
)

// ErrHubStopped is returned by ServeWS once the hub has shut down.
var ErrHubStopped = errors.New("websocket hub stopped")

// Message is one frame sent to a client.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// inbound is one frame received from a client. Data is decoded per type.
type inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// SearchRequest is the payload of a client search message.
type SearchRequest struct {
	Query    string `json:"query"`
	Category string `json:"category"`
}

// SearchResults answers the latest SearchRequest of a client.
type SearchResults struct {
	Query    string               `json:"query"`
	Category string               `json:"category"`
	Count    int                  `json:"count"`
	Items    []models.ContentItem `json:"items"`
}

// SearchFunc runs a public search over the current catalog.
type SearchFunc func(query, category string) []models.ContentItem

// Config configures a Hub.
type Config struct {
	// Search answers search messages. Nil disables live search.
	Search SearchFunc
	// DebounceDelay is the quiet period before a search runs.
	DebounceDelay time.Duration
	// CheckOrigin validates the Origin header on upgrade. Nil accepts same-origin only.
	CheckOrigin func(r *http.Request) bool
}

// Hub tracks connected clients and fans messages out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex

	// stopped is closed when RunWithContext returns. A hub runs once.
	stopped  chan struct{}
	stopOnce sync.Once

	search   SearchFunc
	debounce time.Duration
	upgrader websocket.Upgrader
}

// NewHub creates a hub. Call RunWithContext to start it.
func NewHub(cfg Config) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		stopped:    make(chan struct{}),
		search:     cfg.Search,
		debounce:   cfg.DebounceDelay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     cfg.CheckOrigin,
		},
	}
}

// RunWithContext serves registrations and broadcasts until ctx is done, then
// closes every client. Lifecycle events are drained before broadcasts so a
// client registered before a broadcast always receives it.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case c := <-h.Register:
			h.add(c)
			continue
		case c := <-h.Unregister:
			h.remove(c)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case c := <-h.Register:
			h.add(c)
		case c := <-h.Unregister:
			h.remove(c)
		case msg := <-h.broadcast:
			h.broadcastToClients(msg, nil)
		}
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(n))
	logging.Info().Uint64("client", c.id).Int("total_clients", n).Msg("websocket client connected")
}

func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		c.close()
	}
	n := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Set(float64(n))
	logging.Info().Uint64("client", c.id).Int("total_clients", n).Msg("websocket client disconnected")
}

func (h *Hub) shutdown(ctx context.Context) {
	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}

	h.stopOnce.Do(func() { close(h.stopped) })

	h.mu.Lock()
	n := len(h.clients)
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
	h.mu.Unlock()

	metrics.WSConnections.Set(0)
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", n).
		Msg("websocket hub stopped")
}

// sortedClients returns the clients matching keep in id order. Callers hold mu.
func (h *Hub) sortedClients(keep func(*Client) bool) []*Client {
	out := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if keep == nil || keep(c) {
			out = append(out, c)
		}
	}
	slices.SortFunc(out, func(a, b *Client) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	return out
}

// broadcastToClients delivers msg to every client matching keep. Clients
// whose send buffer is full are dropped.
func (h *Hub) broadcastToClients(msg Message, keep func(*Client) bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range h.sortedClients(keep) {
		if !c.trySend(msg) {
			logging.Warn().Uint64("client", c.id).Str("message_type", msg.Type).Msg("websocket client too slow, disconnecting")
			metrics.WSErrors.WithLabelValues("slow_client").Inc()
			c.close()
			delete(h.clients, c)
		}
	}
	metrics.WSConnections.Set(float64(len(h.clients)))
}

// BroadcastJSON queues a message for every client.
func (h *Hub) BroadcastJSON(messageType string, data any) {
	select {
	case h.broadcast <- Message{Type: messageType, Data: data}:
	default:
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// HandleCatalogChange forwards a catalog change to every client. It is
// registered as an event bus handler.
func (h *Hub) HandleCatalogChange(_ context.Context, change models.CatalogChange) error {
	h.BroadcastJSON(MessageTypeCatalogChanged, change)
	return nil
}

// WatchAuth pushes auth_state to the clients of the account in each change
// until changes is closed.
func (h *Hub) WatchAuth(changes <-chan auth.StateChange) {
	for change := range changes {
		msg := Message{Type: MessageTypeAuthState, Data: change}
		h.broadcastToClients(msg, func(c *Client) bool {
			return c.email != "" && c.email == change.Email
		})
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades the request and registers a client. email identifies a
// signed-in admin and is empty for anonymous visitors. After the hub has
// stopped the connection is closed with CloseGoingAway and ErrHubStopped is
// returned.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, email string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		metrics.WSErrors.WithLabelValues("upgrade").Inc()
		return err
	}
	c := NewClient(h, conn, email)
	select {
	case h.Register <- c:
	case <-h.stopped:
		metrics.WSErrors.WithLabelValues("hub_stopped").Inc()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return ErrHubStopped
	}
	c.Start()
	return nil
}

// runSearch answers one debounced search for c.
func (h *Hub) runSearch(c *Client, req SearchRequest) {
	items := h.search(req.Query, req.Category)
	c.trySend(Message{
		Type: MessageTypeSearchResults,
		Data: SearchResults{Query: req.Query, Category: req.Category, Count: len(items), Items: items},
	})
}
