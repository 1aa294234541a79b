package usecase

import (
	"context"
	"sync"
	"sync/atomic"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/domain/repository"
)

type fakeFeed struct {
	symbols  []string
	startErr error
	starts   atomic.Int32
	stops    atomic.Int32
	stopErr  error
}

func (f *fakeFeed) Start(_ context.Context, _ repository.QuoteSink) error {
	f.starts.Add(1)
	return f.startErr
}

func (f *fakeFeed) Stop() error {
	f.stops.Add(1)
	return f.stopErr
}

func (f *fakeFeed) Watchlist() []string { return f.symbols }

type fakeProvider struct {
	feed repository.Feed
	err  error
}

func (p *fakeProvider) Obtain(context.Context) (repository.Feed, error) {
	return p.feed, p.err
}

type panicProvider struct{}

func (panicProvider) Obtain(context.Context) (repository.Feed, error) {
	panic("collaborator blew up")
}

type fakeMetrics struct {
	mu           sync.Mutex
	auths        map[string]int
	connects     int
	disconnects  int
	streamStarts map[string]int
	errors       map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		auths:        make(map[string]int),
		streamStarts: make(map[string]int),
		errors:       make(map[string]int),
	}
}

func (m *fakeMetrics) RecordAuth(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auths[mode]++
}

func (m *fakeMetrics) RecordConnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.connects++
}

func (m *fakeMetrics) RecordDisconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disconnects++
}

func (m *fakeMetrics) RecordStreamStart(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streamStarts[outcome]++
}

func (m *fakeMetrics) RecordTick(string)               {}
func (m *fakeMetrics) RecordLastPrice(string, float64) {}

func (m *fakeMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *fakeMetrics) RecordLatency(string, float64) {}

type fakeBroadcaster struct {
	mu     sync.Mutex
	quotes []*models.Quote
}

func (b *fakeBroadcaster) Broadcast(q *models.Quote) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quotes = append(b.quotes, q)
}

func (b *fakeBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.quotes)
}

type fakeJournal struct {
	mu      sync.Mutex
	records []*models.Quote
	err     error
}

func (j *fakeJournal) Record(_ context.Context, q *models.Quote) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, q)
	return nil
}

func (j *fakeJournal) Close() error { return nil }
