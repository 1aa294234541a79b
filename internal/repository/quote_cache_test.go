package repository

import (
	"context"
	"testing"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/pkg/cache"
)

func TestQuoteCacheSnapshot(t *testing.T) {
	qc := NewQuoteCache(cache.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	if err := qc.SetLast(ctx, &models.Quote{Symbol: "AAPL", Price: 187.5, Volume: 10, Timestamp: 1700000000}); err != nil {
		t.Fatalf("set last: %v", err)
	}
	if err := qc.SetLast(ctx, &models.Quote{Symbol: "MSFT", Price: 410.2, Volume: 3, Timestamp: 1700000001}); err != nil {
		t.Fatalf("set last: %v", err)
	}

	// GOOGL has no cached quote and must be skipped silently
	got, err := qc.Snapshot(ctx, []string{"AAPL", "MSFT", "GOOGL"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("snapshot returned %d quotes, want 2", len(got))
	}
	if got[0].Symbol != "AAPL" || got[0].Price != 187.5 {
		t.Fatalf("unexpected first quote %+v", got[0])
	}
	if got[1].Symbol != "MSFT" || got[1].Price != 410.2 {
		t.Fatalf("unexpected second quote %+v", got[1])
	}
}

func TestQuoteCacheOverwrite(t *testing.T) {
	qc := NewQuoteCache(cache.NewMemoryCache(), time.Minute)
	ctx := context.Background()

	_ = qc.SetLast(ctx, &models.Quote{Symbol: "AAPL", Price: 100, Volume: 1, Timestamp: 1})
	_ = qc.SetLast(ctx, &models.Quote{Symbol: "AAPL", Price: 101, Volume: 2, Timestamp: 2})

	got, err := qc.Snapshot(ctx, []string{"AAPL"})
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got) != 1 || got[0].Price != 101 {
		t.Fatalf("snapshot must hold the latest quote, got %+v", got)
	}
}

func TestQuoteCacheEmptyWatchlist(t *testing.T) {
	qc := NewQuoteCache(cache.NewMemoryCache(), time.Minute)

	got, err := qc.Snapshot(context.Background(), nil)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", got)
	}
}
