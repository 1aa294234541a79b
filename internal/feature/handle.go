package feature

import (
	"context"
	"sync"

	"MarketGate/internal/domain/repository"
)

// Handle is a live, initialized instance of a feature. It owns the
// streaming guard: the start side effect fires at most once per handle
// lifetime, and the guard is never reset except by initializing a fresh
// handle.
type Handle struct {
	name     string
	mockMode bool
	feed     repository.Feed

	mu        sync.Mutex
	streaming bool
}

func newHandle(name string, feed repository.Feed, mockMode bool) *Handle {
	return &Handle{name: name, mockMode: mockMode, feed: feed}
}

// Name returns the feature name this handle was initialized under.
func (h *Handle) Name() string { return h.name }

// MockMode reports whether the handle was created with the simulated feed.
func (h *Handle) MockMode() bool { return h.mockMode }

// Watchlist returns the symbols the underlying feed covers.
func (h *Handle) Watchlist() []string { return h.feed.Watchlist() }

// StartStreaming starts the underlying feed exactly once. The second and
// later calls return (false, nil) without side effects. A failed start
// leaves the guard unset so a later call may retry. The guard check and
// the start run under one lock so concurrent callers cannot both start.
func (h *Handle) StartStreaming(ctx context.Context, sink repository.QuoteSink) (bool, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.streaming {
		return false, nil
	}
	if err := h.feed.Start(ctx, sink); err != nil {
		return false, err
	}
	h.streaming = true
	return true, nil
}

// StopStreaming stops the underlying feed. The streaming guard is left as
// is: a stopped handle is not restartable, a re-authentication creates a
// new handle instead.
func (h *Handle) StopStreaming() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.feed.Stop()
}

// Streaming reports the guard state.
func (h *Handle) Streaming() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.streaming
}
