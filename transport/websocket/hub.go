package websocket

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hallwaylabs/hallway/space/room"
)

// Hub tracks every live connection by id and fans events out to computed
// recipient sets. Delivery is best-effort: a full or closing send queue
// drops the event for that one recipient and never blocks the caller.
type Hub struct {
	log     *zap.SugaredLogger
	metrics *room.Metrics

	mu      sync.RWMutex
	clients map[string]*Client
}

// NewHub creates a hub. logger and metrics may be nil.
func NewHub(logger *zap.SugaredLogger, metrics *room.Metrics) *Hub {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if metrics == nil {
		metrics = room.NewMetrics()
	}
	return &Hub{
		log:     logger,
		metrics: metrics,
		clients: make(map[string]*Client),
	}
}

// register adds a connection to the hub.
func (h *Hub) register(client *Client) {
	h.mu.Lock()
	h.clients[client.id] = client
	count := len(h.clients)
	h.mu.Unlock()

	h.log.Infow("connection registered", "conn", client.id, "total", count)
}

// unregister removes a connection from the hub. Safe to call for an id that
// is already gone.
func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client.id]
	if ok {
		delete(h.clients, client.id)
	}
	count := len(h.clients)
	h.mu.Unlock()

	if ok {
		h.log.Infow("connection unregistered", "conn", client.id, "remaining", count)
	}
}

// SendEvent serializes the event and delivers it to a single connection.
func (h *Hub) SendEvent(connID string, event Event) {
	data, err := event.Marshal()
	if err != nil {
		h.log.Errorw("failed to marshal event", "type", event.Type, "error", err)
		return
	}
	h.send(connID, data)
}

// BroadcastEvent serializes the event once and delivers it to every listed
// connection except exclude (pass "" to exclude nobody). A failed delivery
// to one recipient does not affect the others.
func (h *Hub) BroadcastEvent(connIDs []string, event Event, exclude string) {
	if len(connIDs) == 0 {
		return
	}
	data, err := event.Marshal()
	if err != nil {
		h.log.Errorw("failed to marshal event", "type", event.Type, "error", err)
		return
	}
	for _, connID := range connIDs {
		if connID == exclude {
			continue
		}
		h.send(connID, data)
	}
}

// send enqueues raw bytes for one connection, dropping when the recipient
// is gone or backed up.
func (h *Hub) send(connID string, data []byte) {
	h.mu.RLock()
	client, ok := h.clients[connID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	if !client.enqueue(data) {
		h.metrics.IncEventsDropped()
		h.log.Warnw("dropped event for slow connection", "conn", connID)
	}
}

// ClientCount returns the number of registered connections.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
