package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketGate/internal/domain/repository"
	"MarketGate/internal/feature"
	"MarketGate/internal/handler/ws"
	"MarketGate/pkg/config"
	xhttp "MarketGate/pkg/http"
	xlogger "MarketGate/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	logger     *xlogger.Logger
	httpServer *xhttp.Server
	hub        *ws.Hub
	registry   *feature.Registry
	journal    repository.Journal
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	logger *xlogger.Logger,
	handler xhttp.Handler,
	hub *ws.Hub,
	registry *feature.Registry,
	journal repository.Journal,
) *App {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetricsPath(cfg.Metrics.Path))
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		httpServer: xhttp.NewServer(handler, logger, opts...),
		hub:        hub,
		registry:   registry,
		journal:    journal,
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go a.hub.Run(ctx)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", xlogger.Error(err))
		return err
	}

	a.logger.Info("application started, features initialize on first authentication",
		xlogger.Bool("market_data", a.cfg.Features.MarketData),
		xlogger.Bool("force_mock", a.cfg.Simulated.Force),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	if h, ok := a.registry.Get(feature.MarketData); ok {
		if err := h.StopStreaming(); err != nil {
			a.logger.Warn("streaming stop error", xlogger.Error(err))
		}
	}

	timeout := a.cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("http shutdown error", xlogger.Error(err))
	}

	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("journal close error", xlogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
