package usecase

import (
	"context"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/domain/repository"
	xlogger "MarketGate/pkg/logger"
)

// TickPipeline is the sink for a streaming feed. Every tick is fanned out
// to the push-channel hub, cached as the symbol's last quote and recorded
// to the configured journal backend.
type TickPipeline struct {
	hub     repository.Broadcaster
	cache   repository.QuoteCache
	journal repository.Journal
	metrics repository.Metrics
	logger  *xlogger.Logger

	recordTimeout time.Duration
}

// NewTickPipeline creates the pipeline.
func NewTickPipeline(
	hub repository.Broadcaster,
	cache repository.QuoteCache,
	journal repository.Journal,
	metrics repository.Metrics,
	logger *xlogger.Logger,
) *TickPipeline {
	return &TickPipeline{
		hub:           hub,
		cache:         cache,
		journal:       journal,
		metrics:       metrics,
		logger:        logger,
		recordTimeout: 5 * time.Second,
	}
}

// Consume processes one tick. Journal and cache failures are logged and
// counted, never propagated: the live broadcast must not stall on a slow
// backend.
func (p *TickPipeline) Consume(q *models.Quote) {
	start := time.Now()

	p.hub.Broadcast(q)
	p.metrics.RecordTick(q.Symbol)
	p.metrics.RecordLastPrice(q.Symbol, q.Price)

	ctx, cancel := context.WithTimeout(context.Background(), p.recordTimeout)
	defer cancel()

	if err := p.cache.SetLast(ctx, q); err != nil {
		p.logger.Warn("quote cache set failed", xlogger.String("symbol", q.Symbol), xlogger.Error(err))
		p.metrics.RecordError("cache_set")
	}

	if p.journal != nil {
		if err := p.journal.Record(ctx, q); err != nil {
			p.logger.Warn("tick journal failed", xlogger.String("symbol", q.Symbol), xlogger.Error(err))
			p.metrics.RecordError("journal")
		}
	}

	p.metrics.RecordLatency("tick_pipeline", time.Since(start).Seconds())
}
