package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

// Metrics holds the gateway's Prometheus collectors on a private registry
// so tests can create instances without duplicate-registration panics.
type Metrics struct {
	registry   *prometheus.Registry
	turns      *prometheus.CounterVec
	fallbacks  prometheus.Counter
	errors     prometheus.Counter
	confidence prometheus.Histogram
}

// NewMetrics creates and registers the gateway collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		turns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "chat_turns_total",
			Help:      "Chat turns handled, by primary intent.",
		}, []string{"intent"}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "chat_fallbacks_total",
			Help:      "Turns answered with a fallback response.",
		}),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "parley",
			Name:      "chat_errors_total",
			Help:      "Turns that ended in a degraded error response.",
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "parley",
			Name:      "chat_confidence",
			Help:      "Confidence of returned responses.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
	}

	m.registry.MustRegister(
		m.turns,
		m.fallbacks,
		m.errors,
		m.confidence,
		collectors.NewGoCollector(),
	)
	return m
}

// Observe records one turn outcome.
func (m *Metrics) Observe(intent string, confidence float64, fallback, errored bool) {
	m.turns.WithLabelValues(intent).Inc()
	m.confidence.Observe(confidence)
	if fallback {
		m.fallbacks.Inc()
	}
	if errored {
		m.errors.Inc()
	}
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
