package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"MarketGate/internal/domain/models"
	internalrepo "MarketGate/internal/repository"
	"MarketGate/pkg/cache"
	xlogger "MarketGate/pkg/logger"
)

func TestPipelineFansOut(t *testing.T) {
	hub := &fakeBroadcaster{}
	qc := internalrepo.NewQuoteCache(cache.NewMemoryCache(), time.Minute)
	journal := &fakeJournal{}
	p := NewTickPipeline(hub, qc, journal, newFakeMetrics(), xlogger.Nop())

	q := &models.Quote{Symbol: "AAPL", Price: 189.5, Volume: 120, Timestamp: time.Now().Unix()}
	p.Consume(q)

	if hub.count() != 1 {
		t.Fatalf("broadcast count = %d, want 1", hub.count())
	}
	if len(journal.records) != 1 {
		t.Fatalf("journal records = %d, want 1", len(journal.records))
	}

	snap, err := qc.Snapshot(context.Background(), []string{"AAPL", "MSFT"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(snap) != 1 || snap[0].Symbol != "AAPL" || snap[0].Price != 189.5 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestPipelineJournalFailureDoesNotStall(t *testing.T) {
	hub := &fakeBroadcaster{}
	qc := internalrepo.NewQuoteCache(cache.NewMemoryCache(), time.Minute)
	journal := &fakeJournal{err: errors.New("broker down")}
	m := newFakeMetrics()
	p := NewTickPipeline(hub, qc, journal, m, xlogger.Nop())

	p.Consume(&models.Quote{Symbol: "AAPL", Price: 1, Timestamp: 1})
	p.Consume(&models.Quote{Symbol: "AAPL", Price: 2, Timestamp: 2})

	if hub.count() != 2 {
		t.Fatalf("broadcasts = %d, want 2 despite journal failures", hub.count())
	}
	if m.errors["journal"] != 2 {
		t.Fatalf("journal errors recorded = %v, want 2", m.errors)
	}
}

func TestPipelineNilJournal(t *testing.T) {
	hub := &fakeBroadcaster{}
	qc := internalrepo.NewQuoteCache(cache.NewMemoryCache(), time.Minute)
	p := NewTickPipeline(hub, qc, nil, newFakeMetrics(), xlogger.Nop())

	p.Consume(&models.Quote{Symbol: "AAPL", Price: 1, Timestamp: 1})
	if hub.count() != 1 {
		t.Fatalf("broadcasts = %d, want 1 with journaling disabled", hub.count())
	}
}
