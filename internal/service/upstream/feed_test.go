package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"MarketGate/internal/domain/models"
	xlogger "MarketGate/pkg/logger"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting: %s", msg)
}

// upstreamStub accepts websocket connections, tracks how many are live
// and pushes one trade frame after the subscribe arrives.
func upstreamStub(t *testing.T, active *atomic.Int32, sendTrade bool) *httptest.Server {
	t.Helper()
	up := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		active.Add(1)
		defer func() {
			active.Add(-1)
			_ = conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
			if sendTrade {
				sendTrade = false
				_ = conn.WriteJSON(map[string]interface{}{
					"type": "trade",
					"data": []map[string]interface{}{
						{"s": "AAPL", "p": 187.5, "v": 12.0, "t": 1700000000000},
					},
				})
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestFeedDecodesTradeFrames(t *testing.T) {
	var active atomic.Int32
	srv := upstreamStub(t, &active, true)
	defer srv.Close()

	f := NewFeed("key", wsURL(srv), []string{"AAPL"}, time.Second, xlogger.Nop())
	quotes := make(chan *models.Quote, 4)
	if err := f.Start(context.Background(), func(q *models.Quote) { quotes <- q }); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer f.Stop()

	select {
	case q := <-quotes:
		if q.Symbol != "AAPL" || q.Price != 187.5 || q.Timestamp != 1700000000 {
			t.Fatalf("unexpected quote %+v", q)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no quote decoded")
	}
}

func TestFeedRestartClosesPriorConnection(t *testing.T) {
	var active atomic.Int32
	srv := upstreamStub(t, &active, false)
	defer srv.Close()

	f := NewFeed("key", wsURL(srv), []string{"AAPL"}, time.Second, xlogger.Nop())
	sink := func(*models.Quote) {}

	if err := f.Start(context.Background(), sink); err != nil {
		t.Fatalf("first start: %v", err)
	}
	waitFor(t, func() bool { return active.Load() == 1 }, "first connection live")

	// a second start without a stop must not leave the first connection
	// running alongside the new one
	if err := f.Start(context.Background(), sink); err != nil {
		t.Fatalf("second start: %v", err)
	}
	waitFor(t, func() bool { return active.Load() == 1 }, "prior connection closed")

	if err := f.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	waitFor(t, func() bool { return active.Load() == 0 }, "all connections closed")
}
