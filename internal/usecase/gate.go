package usecase

import (
	"context"

	"MarketGate/internal/domain/repository"
	"MarketGate/internal/feature"
	xlogger "MarketGate/pkg/logger"
)

// Gate reacts to push-channel connect and disconnect events. On connect
// it starts the market data stream at most once per live handle; the
// at-most-once guarantee is the handle's streaming guard, checked and set
// under the handle lock.
type Gate struct {
	registry *feature.Registry
	pipeline *TickPipeline
	metrics  repository.Metrics
	logger   *xlogger.Logger
}

// NewGate creates the connection gate.
func NewGate(registry *feature.Registry, pipeline *TickPipeline, metrics repository.Metrics, logger *xlogger.Logger) *Gate {
	return &Gate{
		registry: registry,
		pipeline: pipeline,
		metrics:  metrics,
		logger:   logger,
	}
}

// OnConnect handles one push-channel connect event. An unauthenticated
// socket is a legitimate state before login completes, so the
// unauthenticated, feature-disabled and handle-absent cases are silent
// no-ops. A failed start leaves the guard unset; a later connect, e.g.
// from a page reload, retries.
func (g *Gate) OnConnect(ctx context.Context, authenticated bool) {
	g.metrics.RecordConnect()
	g.logger.Info("client connected", xlogger.Bool("authenticated", authenticated))

	if !authenticated || !g.registry.Enabled(feature.MarketData) {
		return
	}

	h, ok := g.registry.Get(feature.MarketData)
	if !ok {
		return
	}

	started, err := h.StartStreaming(ctx, g.pipeline.Consume)
	switch {
	case err != nil:
		g.logger.Error("failed to start market data streaming", xlogger.Error(err))
		g.metrics.RecordStreamStart("failure")
		g.metrics.RecordError("stream_start")
	case started:
		g.logger.Info("started market data streaming for new client")
		g.metrics.RecordStreamStart("started")
	default:
		// already streaming, nothing to do
		g.metrics.RecordStreamStart("already_streaming")
	}
}

// OnDisconnect records the event. No state changes and no resource
// release: the handle and its stream stay live for reconnection.
func (g *Gate) OnDisconnect() {
	g.metrics.RecordDisconnect()
	g.logger.Info("client disconnected")
}
