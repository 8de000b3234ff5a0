package services

import (
	"sync"

	"commons/internal/models"

	"go.uber.org/zap"
)

const subscriberBuffer = 32

// Hub fans chat events out to connected clients. Delivery is best effort: a
// subscriber whose buffer is full misses the event instead of stalling the
// sender.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan models.ChatEvent]struct{}
	log     *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		clients: make(map[chan models.ChatEvent]struct{}),
		log:     log,
	}
}

// Subscribe registers a client. The returned func unregisters it and closes
// the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan models.ChatEvent, func()) {
	ch := make(chan models.ChatEvent, subscriberBuffer)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.clients, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

func (h *Hub) Broadcast(ev models.ChatEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.log.Warn("Chat subscriber buffer full, dropping event", zap.Uint("message_id", ev.ID))
		}
	}
}

// Clients is the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
