package realtime

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

const (
	// PingInterval and PongWait are used for heartbeat (seconds).
	PingInterval = 30
	PongWait     = 60
)

// RedisPublisher publishes campus events for cross-instance broadcast.
type RedisPublisher interface {
	PublishCampusEvent(event string, payload []byte) error
}

// RedisSubscriber subscribes to the campus channel and invokes handler for
// incoming events.
type RedisSubscriber interface {
	SubscribeCampus(handler func(event string, payload []byte)) (cancel func(), err error)
}

// Hub maintains the set of connected clients and pushes campus events
// (attendance scans, notifications) to all of them. The channel is
// push-only: clients receive, they never publish through it. Scoping is
// done client-side; a faculty watcher filters scan events by subject and
// date locally.
type Hub struct {
	mu        sync.RWMutex
	clients   map[string]*Client
	logger    *zap.Logger
	redis     RedisPublisher
	redisSub  RedisSubscriber
	cancelSub func()
}

// NewHub creates a hub. When a Redis subscriber is supplied, the hub
// subscribes to the campus channel so events published by any instance are
// delivered to this instance's clients exactly once.
func NewHub(logger *zap.Logger, redisPub RedisPublisher, redisSub RedisSubscriber) *Hub {
	h := &Hub{
		clients:  make(map[string]*Client),
		logger:   logger,
		redis:    redisPub,
		redisSub: redisSub,
	}
	if redisSub != nil {
		cancel, err := redisSub.SubscribeCampus(func(event string, payload []byte) {
			h.broadcastLocal(event, json.RawMessage(payload))
		})
		if err != nil {
			logger.Warn("campus channel subscribe failed; falling back to local broadcast", zap.Error(err))
		} else {
			h.cancelSub = cancel
		}
	}
	return h
}

// Register adds a client.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c.ID] = c
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client connected", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// Unregister removes a client.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c.ID)
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client disconnected", zap.String("client_id", c.ID), zap.Int("clients", count))
}

// BroadcastCampusEvent delivers an event to every connected client on every
// instance. With Redis wired, the event goes through the campus channel and
// the subscription callback performs the one local broadcast; without
// Redis, it is delivered locally.
func (h *Hub) BroadcastCampusEvent(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if h.redis != nil && h.cancelSub != nil {
		if err := h.redis.PublishCampusEvent(event, data); err == nil {
			return
		}
		h.logger.Warn("campus event publish failed; broadcasting locally", zap.String("event", event))
	}
	h.broadcastLocal(event, json.RawMessage(data))
}

func (h *Hub) broadcastLocal(event string, payload interface{}) {
	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		data, _ = json.Marshal(payload)
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

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close cancels the Redis subscription.
func (h *Hub) Close() {
	if h.cancelSub != nil {
		h.cancelSub()
		h.cancelSub = nil
	}
}
