package websocket

import (
	"sync"
	"time"

	"aquatech-web/internal/pkg/logger"
)

// Hub tracks the open session streams so they can be counted and closed on
// shutdown. A browser session may hold several streams (one per tab).
type Hub struct {
	mu      sync.Mutex
	clients map[string]map[*Client]struct{}
	closed  bool

	pingPeriod time.Duration
	logger     logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		pingPeriod: pingPeriod,
		logger:     log,
	}
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	set, ok := h.clients[c.SessionID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.SessionID] = set
	}
	set[c] = struct{}{}

	h.logger.Info("Hub", "Client registered", map[string]interface{}{
		"session_id":  c.SessionID,
		"connections": len(set),
	})
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.clients[c.SessionID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.SessionID)
		h.logger.Info("Hub", "Client completely unregistered", map[string]interface{}{"session_id": c.SessionID})
	}
}

// Connections counts the open streams of sessionID.
func (h *Hub) Connections(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[sessionID])
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, set := range h.clients {
		n += len(set)
	}
	return n
}

// Close ends every stream with a close frame and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	var all []*Client
	for _, set := range h.clients {
		for c := range set {
			all = append(all, c)
		}
	}
	h.mu.Unlock()

	for _, c := range all {
		c.stop()
	}
}
