package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"MarketGate/internal/feature"
	internalrepo "MarketGate/internal/repository"
	"MarketGate/pkg/cache"
	xlogger "MarketGate/pkg/logger"
)

func newTestGate(t *testing.T, enabled bool) (*Gate, *feature.Registry, *fakeMetrics) {
	t.Helper()
	registry := feature.NewRegistry(map[string]bool{feature.MarketData: enabled})
	m := newFakeMetrics()
	pipeline := NewTickPipeline(
		&fakeBroadcaster{},
		internalrepo.NewQuoteCache(cache.NewMemoryCache(), time.Minute),
		nil,
		m,
		xlogger.Nop(),
	)
	return NewGate(registry, pipeline, m, xlogger.Nop()), registry, m
}

func TestOnConnectUnauthenticatedIsNoOp(t *testing.T) {
	gate, registry, _ := newTestGate(t, true)
	feed := &fakeFeed{}
	if _, err := registry.Initialize(feature.MarketData, nil, feed, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	gate.OnConnect(context.Background(), false)

	if feed.starts.Load() != 0 {
		t.Fatalf("unauthenticated connect must not start streaming")
	}
}

func TestOnConnectFeatureDisabledIsNoOp(t *testing.T) {
	gate, _, m := newTestGate(t, false)
	gate.OnConnect(context.Background(), true)
	if len(m.streamStarts) != 0 {
		t.Fatalf("disabled feature must not attempt streaming, got %v", m.streamStarts)
	}
}

func TestOnConnectNoHandleIsNoOp(t *testing.T) {
	gate, _, m := newTestGate(t, true)
	gate.OnConnect(context.Background(), true)
	if len(m.streamStarts) != 0 {
		t.Fatalf("absent handle must not attempt streaming, got %v", m.streamStarts)
	}
}

func TestOnConnectStartsStreamingOnce(t *testing.T) {
	gate, registry, m := newTestGate(t, true)
	feed := &fakeFeed{}
	if _, err := registry.Initialize(feature.MarketData, nil, feed, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	gate.OnConnect(context.Background(), true)
	gate.OnConnect(context.Background(), true)

	if feed.starts.Load() != 1 {
		t.Fatalf("feed started %d times across two connects, want 1", feed.starts.Load())
	}
	if m.streamStarts["started"] != 1 || m.streamStarts["already_streaming"] != 1 {
		t.Fatalf("unexpected stream start outcomes %v", m.streamStarts)
	}
}

func TestOnConnectConcurrentStartsOnce(t *testing.T) {
	gate, registry, _ := newTestGate(t, true)
	feed := &fakeFeed{}
	if _, err := registry.Initialize(feature.MarketData, nil, feed, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			gate.OnConnect(context.Background(), true)
		}()
	}
	wg.Wait()

	if feed.starts.Load() != 1 {
		t.Fatalf("feed started %d times under concurrent connects, want 1", feed.starts.Load())
	}
}

func TestOnConnectStartFailureAllowsRetry(t *testing.T) {
	gate, registry, m := newTestGate(t, true)
	feed := &fakeFeed{startErr: errors.New("no stream")}
	if _, err := registry.Initialize(feature.MarketData, nil, feed, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}

	gate.OnConnect(context.Background(), true)
	if m.streamStarts["failure"] != 1 {
		t.Fatalf("expected one failure outcome, got %v", m.streamStarts)
	}

	feed.startErr = nil
	gate.OnConnect(context.Background(), true)

	if feed.starts.Load() != 2 {
		t.Fatalf("feed started %d times, want 2 (failure then retry)", feed.starts.Load())
	}
	if m.streamStarts["started"] != 1 {
		t.Fatalf("expected a successful retry, got %v", m.streamStarts)
	}
}

func TestOnDisconnectOnlyRecords(t *testing.T) {
	gate, registry, m := newTestGate(t, true)
	feed := &fakeFeed{}
	if _, err := registry.Initialize(feature.MarketData, nil, feed, true); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	gate.OnConnect(context.Background(), true)

	gate.OnDisconnect()

	if m.disconnects != 1 {
		t.Fatalf("disconnects = %d, want 1", m.disconnects)
	}
	if feed.stops.Load() != 0 {
		t.Fatalf("disconnect must not stop streaming")
	}
	h, _ := registry.Get(feature.MarketData)
	if !h.Streaming() {
		t.Fatalf("handle must stay live across disconnects")
	}
}
