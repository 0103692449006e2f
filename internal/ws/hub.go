package ws

import (
	"encoding/json"
	"sync"
)

// Client represents a single WebSocket connection subscribed to one
// fundraiser's progress feed.
type Client struct {
	UserID  uint
	EventID uint
	Send    chan []byte
	hub     *Hub
	mu      sync.Mutex
	closed  bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

// Hub maintains the active connections grouped by the event they watch.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	// eventID -> clients (one event can have many watchers)
	byEvent map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		byEvent: make(map[uint]map[*Client]struct{}),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	c.hub = h
	h.clients[c] = struct{}{}
	if h.byEvent[c.EventID] == nil {
		h.byEvent[c.EventID] = make(map[*Client]struct{})
	}
	h.byEvent[c.EventID][c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	if m := h.byEvent[c.EventID]; m != nil {
		delete(m, c)
		if len(m) == 0 {
			delete(h.byEvent, c.EventID)
		}
	}
}

// BroadcastToEvent delivers payload to every watcher of the event.
// Slow consumers are skipped rather than blocking the sender.
func (h *Hub) BroadcastToEvent(eventID uint, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.mu.RLock()
	m := h.byEvent[eventID]
	if m == nil {
		h.mu.RUnlock()
		return
	}
	clients := make([]*Client, 0, len(m))
	for c := range m {
		clients = append(clients, c)
	}
	h.mu.RUnlock()
	for _, c := range clients {
		select {
		case c.Send <- data:
		default:
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
