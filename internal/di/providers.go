package di

import (
	"context"
	"fmt"
	"time"

	"MarketGate/internal/domain/repository"
	"MarketGate/internal/feature"
	"MarketGate/internal/handler/web"
	"MarketGate/internal/handler/ws"
	internalrepo "MarketGate/internal/repository"
	"MarketGate/internal/service/simfeed"
	"MarketGate/internal/service/upstream"
	"MarketGate/internal/session"
	"MarketGate/internal/usecase"
	"MarketGate/pkg/cache"
	pkgch "MarketGate/pkg/clickhouse"
	"MarketGate/pkg/config"
	xhttp "MarketGate/pkg/http"
	pkgkafka "MarketGate/pkg/kafka"
	"MarketGate/pkg/logger"
	"MarketGate/pkg/metrics"
	"MarketGate/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	lcfg := &logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lcfg.Level == "" {
		lcfg.Level = "info"
	}
	if lcfg.Format == "" {
		lcfg.Format = "console"
	}
	if lcfg.Output == "" {
		lcfg.Output = "stdout"
	}
	return logger.New(lcfg)
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSessionStore creates the cookie session store.
func ProvideSessionStore(cfg *config.Config) (*session.Store, error) {
	return session.NewStore(cfg.Session.Secret, cfg.Session.CookieName)
}

// ProvideCacheService creates the configured cache backend.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if cfg.Cache.Type == "redis" {
		c, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return c, nil
	}
	return cache.NewMemoryCache(), nil
}

// ProvideQuoteCache creates the last-quote cache.
func ProvideQuoteCache(svc cache.Service, cfg *config.Config) repository.QuoteCache {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	return internalrepo.NewQuoteCache(svc, ttl)
}

// ProvideJournal creates the tick journal for the configured backend.
// backend "none" disables journaling.
func ProvideJournal(cfg *config.Config) (repository.Journal, error) {
	switch cfg.Backend.Type {
	case "", "none":
		return nil, nil

	case "kafka":
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(cfg.Kafka.Brokers),
			pkgkafka.WithCompression(cfg.Kafka.Compression),
			pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
			pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
			pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
			pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
			pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
			pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaJournal(producer, cfg.Kafka.Topic), nil

	case "clickhouse":
		client, err := pkgch.NewClient(
			pkgch.WithHost(cfg.ClickHouse.Host),
			pkgch.WithPort(cfg.ClickHouse.Port),
			pkgch.WithDatabase(cfg.ClickHouse.Database),
			pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
			pkgch.WithMaxConnections(10, 5),
			pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
			pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}

		table := cfg.ClickHouse.Database + ".ticks"
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.InitSchema(ctx, []string{
			"CREATE DATABASE IF NOT EXISTS " + cfg.ClickHouse.Database,
			"CREATE TABLE IF NOT EXISTS " + table +
				" (symbol String, t DateTime, price Float64, volume Float64) ENGINE=MergeTree ORDER BY (symbol, t)",
		}); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return internalrepo.NewClickHouseJournal(client, table), nil

	default:
		return nil, fmt.Errorf("unknown backend type %q", cfg.Backend.Type)
	}
}

// ProvideHub creates the push channel hub.
func ProvideHub(l *logger.Logger) *ws.Hub {
	return ws.NewHub(l)
}

// ProvideRegistry creates the feature registry.
func ProvideRegistry(cfg *config.Config) *feature.Registry {
	return feature.NewRegistry(map[string]bool{
		feature.MarketData: cfg.Features.MarketData,
	})
}

// ProvideSimFeed creates the simulated market data collaborator.
func ProvideSimFeed(cfg *config.Config, l *logger.Logger) repository.Feed {
	tick := cfg.Simulated.TickInterval
	if tick <= 0 {
		tick = time.Second
	}
	return simfeed.New(cfg.Upstream.Symbols, tick, l)
}

// ProvideClientProvider creates the real upstream collaborator boundary.
func ProvideClientProvider(cfg *config.Config, l *logger.Logger) repository.ClientProvider {
	return upstream.NewProvider(
		cfg.Upstream.APIKey,
		cfg.Upstream.WebSocketURL,
		cfg.Upstream.Symbols,
		cfg.Upstream.PingInterval,
		l,
	)
}

// ProvideTickPipeline creates the streaming sink.
func ProvideTickPipeline(
	hub *ws.Hub,
	quoteCache repository.QuoteCache,
	journal repository.Journal,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.TickPipeline {
	return usecase.NewTickPipeline(hub, quoteCache, journal, m, l)
}

// ProvideAuthenticator creates the authentication orchestrator.
func ProvideAuthenticator(
	registry *feature.Registry,
	provider repository.ClientProvider,
	simFeed repository.Feed,
	cfg *config.Config,
	m repository.Metrics,
	l *logger.Logger,
) *usecase.Authenticator {
	return usecase.NewAuthenticator(registry, provider, simFeed, cfg.Simulated.Force, m, l)
}

// ProvideGate creates the connection gate.
func ProvideGate(registry *feature.Registry, pipeline *usecase.TickPipeline, m repository.Metrics, l *logger.Logger) *usecase.Gate {
	return usecase.NewGate(registry, pipeline, m, l)
}

// ProvideWebHandler creates the web route handler.
func ProvideWebHandler(auth *usecase.Authenticator, sessions *session.Store, registry *feature.Registry, l *logger.Logger) *web.Handler {
	return web.NewHandler(auth, sessions, registry, l)
}

// ProvideWSHandler creates the push channel handler.
func ProvideWSHandler(
	hub *ws.Hub,
	gate *usecase.Gate,
	sessions *session.Store,
	registry *feature.Registry,
	quoteCache repository.QuoteCache,
	l *logger.Logger,
) *ws.Handler {
	return ws.NewHandler(hub, gate, sessions, registry, quoteCache, l)
}

// ProvideHandler merges route handlers for the HTTP server.
func ProvideHandler(webHandler *web.Handler, wsHandler *ws.Handler) xhttp.Handler {
	return xhttp.Combine(webHandler, wsHandler)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *logger.Logger,
	handler xhttp.Handler,
	hub *ws.Hub,
	registry *feature.Registry,
	journal repository.Journal,
) *server.App {
	return server.New(cfg, l, handler, hub, registry, journal)
}
