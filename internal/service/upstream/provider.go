package upstream

import (
	"context"
	"time"

	"MarketGate/internal/domain/repository"
	xlogger "MarketGate/pkg/logger"
)

// Provider obtains a live upstream feed when credentials are configured.
// A missing API key is the upstream-unavailable case, reported as
// (nil, nil) so the caller falls back to the simulated collaborator.
type Provider struct {
	apiKey       string
	websocketURL string
	symbols      []string
	pingInterval time.Duration
	logger       *xlogger.Logger
}

// NewProvider creates a client provider from upstream configuration.
func NewProvider(apiKey, websocketURL string, symbols []string, pingInterval time.Duration, logger *xlogger.Logger) *Provider {
	return &Provider{
		apiKey:       apiKey,
		websocketURL: websocketURL,
		symbols:      symbols,
		pingInterval: pingInterval,
		logger:       logger,
	}
}

// Obtain returns a feed bound to the configured credentials.
func (p *Provider) Obtain(ctx context.Context) (repository.Feed, error) {
	if p.apiKey == "" || p.websocketURL == "" {
		p.logger.Warn("upstream credentials missing, no client obtainable")
		return nil, nil
	}
	return NewFeed(p.apiKey, p.websocketURL, p.symbols, p.pingInterval, p.logger), nil
}
