//go:build wireinject
// +build wireinject

package di

import (
	"MarketGate/pkg/config"
	"MarketGate/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Session and cache
		ProvideSessionStore,
		ProvideCacheService,
		ProvideQuoteCache,

		// Journal backend
		ProvideJournal,

		// Collaborators and registry
		ProvideRegistry,
		ProvideSimFeed,
		ProvideClientProvider,

		// Use cases
		ProvideHub,
		ProvideTickPipeline,
		ProvideAuthenticator,
		ProvideGate,

		// Handlers
		ProvideWebHandler,
		ProvideWSHandler,
		ProvideHandler,

		ProvideApp,
	)
	return nil, nil
}
