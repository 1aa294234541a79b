package ws

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"MarketGate/internal/domain/repository"
	"MarketGate/internal/feature"
	"MarketGate/internal/session"
	"MarketGate/internal/usecase"
	xlogger "MarketGate/pkg/logger"
)

// Handler upgrades /ws requests onto the hub and feeds connect and
// disconnect events to the gate.
type Handler struct {
	hub      *Hub
	gate     *usecase.Gate
	sessions *session.Store
	registry *feature.Registry
	cache    repository.QuoteCache
	logger   *xlogger.Logger

	upgrader websocket.Upgrader
}

// NewHandler creates the push channel handler.
func NewHandler(
	hub *Hub,
	gate *usecase.Gate,
	sessions *session.Store,
	registry *feature.Registry,
	cache repository.QuoteCache,
	logger *xlogger.Logger,
) *Handler {
	return &Handler{
		hub:      hub,
		gate:     gate,
		sessions: sessions,
		registry: registry,
		cache:    cache,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes attaches the websocket endpoint.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}

// Serve upgrades the connection. The gate decides whether this connect
// starts streaming; an unauthenticated socket simply attaches and waits.
func (h *Handler) Serve(c echo.Context) error {
	sess := h.sessions.Current(c)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}

	client := newClient(h.hub, conn)
	h.hub.register <- client

	h.gate.OnConnect(c.Request().Context(), sess.Authenticated)
	h.primeClient(c, client)

	go client.writePump()
	go client.readPump(h.gate.OnDisconnect)
	return nil
}

// primeClient seeds a fresh connection with the last known quote per
// watchlist symbol so the page has data before the next live tick.
func (h *Handler) primeClient(c echo.Context, client *Client) {
	handle, ok := h.registry.Get(feature.MarketData)
	if !ok {
		return
	}

	quotes, err := h.cache.Snapshot(c.Request().Context(), handle.Watchlist())
	if err != nil {
		h.logger.Warn("quote snapshot failed", xlogger.Error(err))
		return
	}
	for _, q := range quotes {
		b, err := json.Marshal(q)
		if err != nil {
			continue
		}
		select {
		case client.send <- b:
		default:
			return
		}
	}
}
