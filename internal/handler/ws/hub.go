package ws

import (
	"context"
	"encoding/json"
	"sync"

	"MarketGate/internal/domain/models"
	xlogger "MarketGate/pkg/logger"
)

// Hub fans market data out to every connected push-channel client. One
// hub serves the whole process; it maps many clients onto the single
// shared feature handle.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	logger     *xlogger.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
	done    chan struct{}
}

// NewHub creates the hub. Run must be called before clients attach.
func NewHub(logger *xlogger.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		clients:    make(map[*Client]struct{}),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run is the hub loop; it exits when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = struct{}{}
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// slow consumer, prune it so the hub never blocks
					delete(h.clients, c)
					close(c.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues one quote for every connected client. Drops the tick
// when the hub buffer is full rather than stalling the feed.
func (h *Hub) Broadcast(q *models.Quote) {
	b, err := json.Marshal(q)
	if err != nil {
		h.logger.Warn("quote marshal failed", xlogger.Error(err))
		return
	}
	select {
	case h.broadcast <- b:
	default:
	}
}

// ClientCount reports how many clients are attached.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
