package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	authTotal    *prometheus.CounterVec
	connects     prometheus.Counter
	disconnects  prometheus.Counter
	streamStarts *prometheus.CounterVec
	ticksTotal   *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	errorsTotal  *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		authTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketgate_auth_total",
				Help: "Total number of completed authentications by mode",
			},
			[]string{"mode"},
		),
		connects: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "marketgate_ws_connects_total",
				Help: "Total number of push channel connect events",
			},
		),
		disconnects: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "marketgate_ws_disconnects_total",
				Help: "Total number of push channel disconnect events",
			},
		),
		streamStarts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketgate_stream_start_total",
				Help: "Streaming start attempts by outcome",
			},
			[]string{"outcome"},
		),
		ticksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketgate_ticks_total",
				Help: "Total number of ticks pushed through the pipeline",
			},
			[]string{"symbol"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "marketgate_last_price",
				Help: "Last recorded price for a symbol",
			},
			[]string{"symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketgate_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketgate_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordAuth records one completed authentication.
func (r *Recorder) RecordAuth(mode string) {
	r.authTotal.WithLabelValues(mode).Inc()
}

// RecordConnect records a push channel connect event.
func (r *Recorder) RecordConnect() {
	r.connects.Inc()
}

// RecordDisconnect records a push channel disconnect event.
func (r *Recorder) RecordDisconnect() {
	r.disconnects.Inc()
}

// RecordStreamStart records a streaming start attempt outcome.
func (r *Recorder) RecordStreamStart(outcome string) {
	r.streamStarts.WithLabelValues(outcome).Inc()
}

// RecordTick records a tick pushed through the pipeline.
func (r *Recorder) RecordTick(symbol string) {
	r.ticksTotal.WithLabelValues(symbol).Inc()
}

// RecordLastPrice records the last price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
