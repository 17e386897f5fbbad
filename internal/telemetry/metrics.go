// Package telemetry exposes Prometheus metrics about chartty itself: fetch
// outcomes and latency, gaps, ingest results and buffer occupancy.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "chartty"

// Fetch statuses.
const (
	StatusOK      = "ok"
	StatusEmpty   = "empty"
	StatusError   = "error"
	StatusTimeout = "timeout"
)

// Gap reasons.
const (
	GapInflight = "inflight"
	GapEmpty    = "empty"
	GapError    = "error"
	GapBackoff  = "backoff"
	GapRejected = "rejected"
)

// Metrics holds the engine's collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	FetchTotal    *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Gaps          *prometheus.CounterVec
	Ingested      *prometheus.CounterVec
	Rejected      *prometheus.CounterVec
	BufferLength  *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		FetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_total",
				Help:      "Series fetches by outcome",
			},
			[]string{"series", "status"},
		),
		FetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Series fetch latency",
				Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"series"},
		),
		Gaps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "gaps_total",
				Help:      "Ticks that produced no sample, by reason",
			},
			[]string{"series", "reason"},
		),
		Ingested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "samples_ingested_total",
				Help:      "Samples handed to series buffers, by outcome",
			},
			[]string{"series", "outcome"},
		),
		Rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "samples_rejected_total",
				Help:      "Samples rejected for non-finite values",
			},
			[]string{"series"},
		),
		BufferLength: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "buffer_length",
				Help:      "Samples currently held per series",
			},
			[]string{"series"},
		),
	}

	for _, c := range []prometheus.Collector{
		m.FetchTotal, m.FetchDuration, m.Gaps, m.Ingested, m.Rejected, m.BufferLength,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordFetch records one completed fetch.
func (m *Metrics) RecordFetch(series, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(series, status).Inc()
	m.FetchDuration.WithLabelValues(series).Observe(d.Seconds())
}

// RecordGap records a tick that became a gap.
func (m *Metrics) RecordGap(series, reason string) {
	if m == nil {
		return
	}
	m.Gaps.WithLabelValues(series, reason).Inc()
}

// RecordIngest records the outcome of a buffer ingest.
func (m *Metrics) RecordIngest(series, outcome string) {
	if m == nil {
		return
	}
	m.Ingested.WithLabelValues(series, outcome).Inc()
}

// RecordRejected records a sample refused by the buffer.
func (m *Metrics) RecordRejected(series string) {
	if m == nil {
		return
	}
	m.Rejected.WithLabelValues(series).Inc()
}

// SetBufferLength publishes the current buffer occupancy.
func (m *Metrics) SetBufferLength(series string, n int) {
	if m == nil {
		return
	}
	m.BufferLength.WithLabelValues(series).Set(float64(n))
}
