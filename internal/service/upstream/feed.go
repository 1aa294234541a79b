package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/domain/repository"
	xlogger "MarketGate/pkg/logger"
)

// Feed streams live quotes from the upstream provider WebSocket.
type Feed struct {
	apiKey       string
	websocketURL string
	symbols      []string
	pingInterval time.Duration
	logger       *xlogger.Logger

	mu     sync.Mutex
	conn   *websocket.Conn
	cancel context.CancelFunc
}

// NewFeed creates an upstream feed for the configured watchlist.
func NewFeed(apiKey, websocketURL string, symbols []string, pingInterval time.Duration, logger *xlogger.Logger) *Feed {
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	return &Feed{
		apiKey:       apiKey,
		websocketURL: websocketURL,
		symbols:      symbols,
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Watchlist returns the configured symbols.
func (f *Feed) Watchlist() []string { return f.symbols }

type wireTick struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wireMessage struct {
	Type string     `json:"type"`
	Data []wireTick `json:"data"`
}

// Start dials the upstream, subscribes the watchlist and pumps decoded
// quotes into the sink until Stop or context cancellation.
func (f *Feed) Start(ctx context.Context, sink repository.QuoteSink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// a restart supersedes any previous run
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.conn != nil {
		_ = f.conn.Close()
		f.conn = nil
	}

	u := fmt.Sprintf("%s?token=%s", f.websocketURL, f.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("upstream connect: %w", err)
	}

	for _, s := range f.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := conn.WriteJSON(msg); err != nil {
			_ = conn.Close()
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
	}

	runCtx, cancel := context.WithCancel(context.Background())
	f.conn = conn
	f.cancel = cancel

	go f.pingLoop(runCtx, conn)
	go f.readLoop(runCtx, conn, sink)

	f.logger.Info("upstream feed started", xlogger.Strings("symbols", f.symbols))
	return nil
}

func (f *Feed) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = conn.WriteMessage(websocket.PingMessage, nil)
		}
	}
}

func (f *Feed) readLoop(ctx context.Context, conn *websocket.Conn, sink repository.QuoteSink) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				f.logger.Warn("upstream read error", xlogger.Error(err))
			}
			return
		}

		var m wireMessage
		if err := json.Unmarshal(b, &m); err != nil {
			// non-trade frames are ignored
			continue
		}
		if m.Type != "trade" {
			continue
		}
		for _, d := range m.Data {
			sink(&models.Quote{
				Symbol:    d.S,
				Price:     d.P,
				Volume:    d.V,
				Timestamp: d.T / 1000,
			})
		}
	}
}

// Stop closes the connection and halts the pump goroutines.
func (f *Feed) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if f.conn != nil {
		err := f.conn.Close()
		f.conn = nil
		return err
	}
	return nil
}
