package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat.
	PingInterval = 30
	PongWait     = 60
)

// EventConnected is sent to a client right after it joins the feed.
const EventConnected = "connected"

// Publisher sends a feed event to every server instance.
type Publisher interface {
	PublishEvent(ctx context.Context, event string, payload []byte) error
}

// Subscriber receives feed events published by any instance. Subscribe blocks until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(event string, payload []byte)) error
}

// Hub holds the review-feed connections and fans events out to them.
// With a Publisher set, events go through Redis so every instance delivers them exactly once.
type Hub struct {
	clients map[string]*Client
	mu      sync.RWMutex
	logger  *zap.Logger
	pub     Publisher
}

// NewHub creates a hub. pub may be nil for a single instance.
func NewHub(logger *zap.Logger, pub Publisher) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		logger:  logger,
		pub:     pub,
	}
}

// Register adds a client to the feed.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("review feed client joined", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Unregister removes a client from the feed.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("review feed client left", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Count returns the number of connected clients on this instance.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends a message to all local clients. Slow clients with a full buffer miss it.
func (h *Hub) Broadcast(event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		var err error
		if data, err = json.Marshal(payload); err != nil {
			h.logger.Warn("marshal feed event", zap.String("event", event), zap.Error(err))
			return
		}
	}
	msg := WSMessage{Event: event, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// buffer full, skip
		}
	}
}

// Publish delivers an event to every instance's clients. Without a Publisher, or when
// publishing fails, it falls back to a local broadcast.
func (h *Hub) Publish(event string, payload interface{}) {
	if h.pub == nil {
		h.Broadcast(event, payload)
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Warn("marshal feed event", zap.String("event", event), zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), eventTTL)
	defer cancel()
	if err := h.pub.PublishEvent(ctx, event, data); err != nil {
		h.logger.Warn("publish feed event failed; broadcasting locally", zap.String("event", event), zap.Error(err))
		h.Broadcast(event, json.RawMessage(data))
	}
}

// Run forwards events from sub to local clients until ctx is done.
func (h *Hub) Run(ctx context.Context, sub Subscriber) error {
	return sub.Subscribe(ctx, func(event string, payload []byte) {
		h.Broadcast(event, json.RawMessage(payload))
	})
}
