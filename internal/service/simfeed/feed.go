package simfeed

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/domain/repository"
	xlogger "MarketGate/pkg/logger"
)

// Feed generates simulated quotes with a bounded random walk per symbol.
// It satisfies the same capability interface as the real upstream feed.
type Feed struct {
	symbols      []string
	tickInterval time.Duration
	logger       *xlogger.Logger

	mu     sync.Mutex
	prices map[string]float64
	rng    *rand.Rand
	cancel context.CancelFunc
}

// Option configures the simulated feed.
type Option func(*Feed)

// WithSeed fixes the random source, for deterministic tests.
func WithSeed(seed int64) Option {
	return func(f *Feed) {
		f.rng = rand.New(rand.NewSource(seed))
	}
}

// New creates a simulated feed over the given watchlist.
func New(symbols []string, tickInterval time.Duration, logger *xlogger.Logger, opts ...Option) *Feed {
	f := &Feed{
		symbols:      symbols,
		tickInterval: tickInterval,
		logger:       logger,
		prices:       make(map[string]float64, len(symbols)),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(f)
	}
	for _, s := range symbols {
		f.prices[s] = 100 + f.rng.Float64()*400
	}
	return f
}

// Watchlist returns the simulated symbols.
func (f *Feed) Watchlist() []string { return f.symbols }

// Start launches the generator loop. It never fails; the simulated
// collaborator is the graceful-degradation path and has no upstream to
// lose.
func (f *Feed) Start(ctx context.Context, sink repository.QuoteSink) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// a restart supersedes any previous run
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	go f.run(runCtx, sink)
	f.logger.Info("simulated feed started",
		xlogger.Strings("symbols", f.symbols),
		xlogger.Duration("tick_interval", f.tickInterval),
	)
	return nil
}

func (f *Feed) run(ctx context.Context, sink repository.QuoteSink) {
	ticker := time.NewTicker(f.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, q := range f.nextTicks() {
				sink(q)
			}
		}
	}
}

// nextTicks advances every symbol one random-walk step.
func (f *Feed) nextTicks() []*models.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().Unix()
	quotes := make([]*models.Quote, 0, len(f.symbols))
	for _, s := range f.symbols {
		p := f.prices[s]
		p += p * (f.rng.Float64() - 0.5) * 0.004
		if p < 1 {
			p = 1
		}
		f.prices[s] = p
		quotes = append(quotes, &models.Quote{
			Symbol:    s,
			Price:     p,
			Volume:    float64(f.rng.Intn(900) + 100),
			Timestamp: now,
		})
	}
	return quotes
}

// Stop halts the generator loop.
func (f *Feed) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	return nil
}
