package feature

import (
	"fmt"
	"sync"

	"MarketGate/internal/domain/repository"
)

// MarketData is the feature name for the real-time market data subsystem.
const MarketData = "market_data"

// Registry tracks which named features are enabled and which have been
// initialized into live handles. It is injected into every component that
// needs it; there is no package-level instance.
type Registry struct {
	mu      sync.RWMutex
	enabled map[string]bool
	handles map[string]*Handle
}

// NewRegistry creates a registry with the given features enabled.
func NewRegistry(enabled map[string]bool) *Registry {
	e := make(map[string]bool, len(enabled))
	for k, v := range enabled {
		e[k] = v
	}
	return &Registry{
		enabled: e,
		handles: make(map[string]*Handle),
	}
}

// Enabled reports whether a feature is switched on by configuration.
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled[name]
}

// Initialized reports whether a feature has a live handle.
func (r *Registry) Initialized(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handles[name]
	return ok
}

// Get returns the live handle for a feature, if any.
func (r *Registry) Get(name string) (*Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handles[name]
	return h, ok
}

// Initialize builds a fresh handle for a feature from the chosen
// collaborator. Re-initialization replaces any previous handle, which is
// the only way an already-used streaming guard is ever reset; a replaced
// handle that was streaming gets its feed stopped so no orphaned run
// keeps producing.
func (r *Registry) Initialize(name string, real, sim repository.Feed, useSim bool) (*Handle, error) {
	if !r.Enabled(name) {
		return nil, fmt.Errorf("feature %s not enabled", name)
	}

	feed := real
	if useSim {
		feed = sim
	}
	if feed == nil {
		return nil, fmt.Errorf("feature %s: no collaborator for requested mode", name)
	}

	h := newHandle(name, feed, useSim)

	r.mu.Lock()
	prev := r.handles[name]
	r.handles[name] = h
	r.mu.Unlock()

	if prev != nil && prev.Streaming() {
		// the superseded feed must not keep running
		_ = prev.StopStreaming()
	}

	return h, nil
}
