// Package metrics exposes Prometheus collectors for the intake pipeline.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "callintake"

// Fallback outcomes
const (
	FallbackOK            = "ok"
	FallbackCacheHit      = "cache_hit"
	FallbackMalformed     = "malformed"
	FallbackUpstreamError = "upstream_error"
	FallbackCancelled     = "cancelled"
)

// Metrics holds the pipeline collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	fragments        *prometheus.CounterVec
	fallbackOutcomes *prometheus.CounterVec
	chipTransitions  *prometheus.CounterVec
	classifyDuration prometheus.Histogram
	sessionsActive   prometheus.Gauge
}

var (
	defaultOnce sync.Once
	shared      *Metrics
)

// Default returns the collectors registered with the global registry
func Default() *Metrics {
	defaultOnce.Do(func() {
		shared = MustNew(prometheus.DefaultRegisterer)
	})
	return shared
}

// MustNew registers a fresh set of collectors; tests pass their own registry
func MustNew(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fragments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_classified_total",
			Help:      "Fragments classified, by resulting kind and source (rules or fallback).",
		}, []string{"kind", "source"}),
		fallbackOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_calls_total",
			Help:      "Fallback classifier calls by outcome.",
		}, []string{"outcome"}),
		chipTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chip_transitions_total",
			Help:      "Chip state transitions.",
		}, []string{"transition"}),
		classifyDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classify_duration_seconds",
			Help:      "Time to classify one utterance, fallback included.",
			Buckets:   []float64{.001, .005, .01, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions_active",
			Help:      "Open intake sessions.",
		}),
	}
	reg.MustRegister(m.fragments, m.fallbackOutcomes, m.chipTransitions, m.classifyDuration, m.sessionsActive)
	return m
}

// ObserveFragment counts one classified fragment
func (m *Metrics) ObserveFragment(kind, source string) {
	if m == nil {
		return
	}
	m.fragments.WithLabelValues(kind, source).Inc()
}

// ObserveFallback counts one fallback call outcome
func (m *Metrics) ObserveFallback(outcome string) {
	if m == nil {
		return
	}
	m.fallbackOutcomes.WithLabelValues(outcome).Inc()
}

// ObserveChip counts one chip transition
func (m *Metrics) ObserveChip(transition string) {
	if m == nil {
		return
	}
	m.chipTransitions.WithLabelValues(transition).Inc()
}

// ObserveClassify records how long an utterance took
func (m *Metrics) ObserveClassify(d time.Duration) {
	if m == nil {
		return
	}
	m.classifyDuration.Observe(d.Seconds())
}

// SessionOpened increments the active session gauge
func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

// SessionClosed decrements the active session gauge
func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}
