package sse

import (
	"path/filepath"
	"sync"

	"github.com/kbukum/storekit/logger"
)

// Hub is the set of connected watch clients, keyed by client ID. Client
// sends never block, so broadcasts run inline under a read lock.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	closed  bool

	onCount func(int)
	log     *logger.Logger
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithClientCount is called with the client count after every change.
func WithClientCount(fn func(int)) HubOption {
	return func(h *Hub) { h.onCount = fn }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[string]*Client),
		log:     logger.WithComponent("sse"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register adds client, closing any client already registered under its
// ID. On a closed hub the client is closed instead.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		client.Close()
		return
	}
	prev := h.clients[client.id]
	h.clients[client.id] = client
	n := len(h.clients)
	h.mu.Unlock()

	if prev != nil && prev != client {
		prev.Close()
	}
	h.changed(n, "client registered", client.id)
}

// Unregister closes client and removes it, unless its ID has since been
// taken by another client.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	if h.clients[client.id] == client {
		delete(h.clients, client.id)
	}
	n := len(h.clients)
	h.mu.Unlock()

	client.Close()
	h.changed(n, "client unregistered", client.id)
}

// BroadcastToPattern sends ev to every client whose ID matches the glob
// pattern, such as "watch:users:*".
func (h *Hub) BroadcastToPattern(pattern string, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for id, client := range h.clients {
		ok, err := filepath.Match(pattern, id)
		if err != nil {
			h.log.Error("bad broadcast pattern", logger.ErrorFields("broadcast", err))
			return
		}
		if ok && client.Send(ev) {
			sent++
		}
	}
	h.log.Debug("broadcast", logger.Fields("pattern", pattern, "sent", sent))
}

// Close closes every client and turns later registrations away. It is
// idempotent.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
	}
	h.changed(0, "hub closed", "")
}

func (h *Hub) changed(n int, msg, clientID string) {
	if h.onCount != nil {
		h.onCount(n)
	}
	h.log.Debug(msg, logger.Fields(logger.FieldClientID, clientID, "clients", n))
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Client returns the client registered under id, or nil.
func (h *Hub) Client(id string) *Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[id]
}

var _ Broadcaster = (*Hub)(nil)
