package repository

import (
	"context"
	"errors"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/pkg/cache"
)

const lastQuotePrefix = "quote:last:"

// QuoteCache stores the last quote per symbol in a cache service so new
// push-channel clients can be primed before the next live tick arrives.
type QuoteCache struct {
	cache cache.Service
	ttl   time.Duration
}

// NewQuoteCache creates a quote cache with the given entry TTL.
func NewQuoteCache(c cache.Service, ttl time.Duration) *QuoteCache {
	return &QuoteCache{cache: c, ttl: ttl}
}

// SetLast stores a symbol's most recent quote.
func (q *QuoteCache) SetLast(ctx context.Context, quote *models.Quote) error {
	return q.cache.Set(ctx, lastQuotePrefix+quote.Symbol, quote, q.ttl)
}

// Snapshot returns the last known quote for each symbol that has one.
// Symbols with no cached quote are skipped, not errors.
func (q *QuoteCache) Snapshot(ctx context.Context, symbols []string) ([]*models.Quote, error) {
	quotes := make([]*models.Quote, 0, len(symbols))
	for _, s := range symbols {
		var quote models.Quote
		err := q.cache.Get(ctx, lastQuotePrefix+s, &quote)
		if errors.Is(err, cache.ErrCacheMiss) {
			continue
		}
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, &quote)
	}
	return quotes, nil
}
