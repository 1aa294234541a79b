package repository

import (
	"context"

	"MarketGate/internal/domain/models"
)

// QuoteSink consumes ticks produced by a running feed.
type QuoteSink func(*models.Quote)

// Feed is the market data collaborator capability. The real upstream
// client and the simulated generator are the two variants; the
// orchestrator selects one explicitly, never by type inspection.
type Feed interface {
	Start(ctx context.Context, sink QuoteSink) error
	Stop() error
	Watchlist() []string
}

// ClientProvider obtains a real upstream feed. A (nil, nil) return means
// the upstream is unavailable and the caller should degrade to the
// simulated feed; a non-nil error is an unexpected fault.
type ClientProvider interface {
	Obtain(ctx context.Context) (Feed, error)
}

// Journal records streamed ticks to a durable backend.
type Journal interface {
	Record(ctx context.Context, q *models.Quote) error
	Close() error
}

// QuoteCache holds the last quote per symbol so freshly connected push
// clients can be primed with a snapshot.
type QuoteCache interface {
	SetLast(ctx context.Context, q *models.Quote) error
	Snapshot(ctx context.Context, symbols []string) ([]*models.Quote, error)
}

// Broadcaster fans a tick out to every connected push-channel client.
type Broadcaster interface {
	Broadcast(q *models.Quote)
}

// Metrics counts the lifecycle events the orchestrator emits.
type Metrics interface {
	RecordAuth(mode string)
	RecordConnect()
	RecordDisconnect()
	RecordStreamStart(outcome string)
	RecordTick(symbol string)
	RecordLastPrice(symbol string, price float64)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
