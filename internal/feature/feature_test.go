package feature

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/domain/repository"
)

type fakeFeed struct {
	symbols  []string
	startErr error
	starts   atomic.Int32
	stops    atomic.Int32
}

func (f *fakeFeed) Start(_ context.Context, _ repository.QuoteSink) error {
	f.starts.Add(1)
	return f.startErr
}

func (f *fakeFeed) Stop() error {
	f.stops.Add(1)
	return nil
}

func (f *fakeFeed) Watchlist() []string { return f.symbols }

func TestRegistryInitializeSelectsCollaborator(t *testing.T) {
	r := NewRegistry(map[string]bool{MarketData: true})
	real := &fakeFeed{symbols: []string{"AAPL"}}
	sim := &fakeFeed{symbols: []string{"AAPL"}}

	h, err := r.Initialize(MarketData, real, sim, false)
	if err != nil {
		t.Fatalf("initialize real: %v", err)
	}
	if h.MockMode() {
		t.Fatalf("expected real mode handle")
	}

	h, err = r.Initialize(MarketData, real, sim, true)
	if err != nil {
		t.Fatalf("initialize sim: %v", err)
	}
	if !h.MockMode() {
		t.Fatalf("expected mock mode handle")
	}
}

func TestRegistryInitializeDisabled(t *testing.T) {
	r := NewRegistry(map[string]bool{MarketData: false})
	if _, err := r.Initialize(MarketData, nil, &fakeFeed{}, true); err == nil {
		t.Fatalf("expected error for disabled feature")
	}
	if r.Initialized(MarketData) {
		t.Fatalf("disabled feature must not be initialized")
	}
}

func TestRegistryReinitializeResetsGuard(t *testing.T) {
	r := NewRegistry(map[string]bool{MarketData: true})
	sim := &fakeFeed{}

	h1, err := r.Initialize(MarketData, nil, sim, true)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := h1.StartStreaming(context.Background(), func(*models.Quote) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !h1.Streaming() {
		t.Fatalf("expected guard set")
	}

	h2, err := r.Initialize(MarketData, nil, sim, true)
	if err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if h2.Streaming() {
		t.Fatalf("fresh handle must have unset guard")
	}

	got, ok := r.Get(MarketData)
	if !ok || got != h2 {
		t.Fatalf("registry must return the fresh handle")
	}
}

func TestRegistryReinitializeStopsStreamingHandle(t *testing.T) {
	r := NewRegistry(map[string]bool{MarketData: true})
	old := &fakeFeed{}
	fresh := &fakeFeed{}

	h1, err := r.Initialize(MarketData, old, nil, false)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := h1.StartStreaming(context.Background(), func(*models.Quote) {}); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := r.Initialize(MarketData, fresh, nil, false); err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if got := old.stops.Load(); got != 1 {
		t.Fatalf("superseded feed stopped %d times, want 1", got)
	}
	if got := fresh.stops.Load(); got != 0 {
		t.Fatalf("fresh feed must not be stopped, got %d stops", got)
	}
}

func TestRegistryReinitializeIdleHandleNoStop(t *testing.T) {
	r := NewRegistry(map[string]bool{MarketData: true})
	old := &fakeFeed{}

	if _, err := r.Initialize(MarketData, old, nil, false); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if _, err := r.Initialize(MarketData, &fakeFeed{}, nil, false); err != nil {
		t.Fatalf("reinitialize: %v", err)
	}
	if got := old.stops.Load(); got != 0 {
		t.Fatalf("idle feed must not be stopped, got %d stops", got)
	}
}

func TestHandleStartStreamingOnce(t *testing.T) {
	feed := &fakeFeed{}
	h := newHandle(MarketData, feed, true)

	started, err := h.StartStreaming(context.Background(), func(*models.Quote) {})
	if err != nil || !started {
		t.Fatalf("first start: started=%v err=%v", started, err)
	}
	started, err = h.StartStreaming(context.Background(), func(*models.Quote) {})
	if err != nil || started {
		t.Fatalf("second start must be a no-op: started=%v err=%v", started, err)
	}
	if got := feed.starts.Load(); got != 1 {
		t.Fatalf("feed started %d times, want 1", got)
	}
}

func TestHandleStartStreamingConcurrent(t *testing.T) {
	feed := &fakeFeed{}
	h := newHandle(MarketData, feed, true)

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = h.StartStreaming(context.Background(), func(*models.Quote) {})
		}()
	}
	wg.Wait()

	if got := feed.starts.Load(); got != 1 {
		t.Fatalf("feed started %d times under concurrency, want 1", got)
	}
}

func TestHandleStartFailureLeavesGuardUnset(t *testing.T) {
	feed := &fakeFeed{startErr: errors.New("upstream down")}
	h := newHandle(MarketData, feed, false)

	if _, err := h.StartStreaming(context.Background(), func(*models.Quote) {}); err == nil {
		t.Fatalf("expected start error")
	}
	if h.Streaming() {
		t.Fatalf("guard must stay unset after a failed start")
	}

	// a later connect may retry
	feed.startErr = nil
	started, err := h.StartStreaming(context.Background(), func(*models.Quote) {})
	if err != nil || !started {
		t.Fatalf("retry after failure: started=%v err=%v", started, err)
	}
	if got := feed.starts.Load(); got != 2 {
		t.Fatalf("feed started %d times, want 2", got)
	}
}

func TestHandleStopStreaming(t *testing.T) {
	feed := &fakeFeed{}
	h := newHandle(MarketData, feed, true)

	if err := h.StopStreaming(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if got := feed.stops.Load(); got != 1 {
		t.Fatalf("feed stopped %d times, want 1", got)
	}
}
