// Package metrics holds the Prometheus instruments exported by the service.
package metrics

import (
	"weighttrend/internal/trend"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the service's Prometheus instruments.
type Manager struct {
	// counters
	CounterRequests           *prometheus.CounterVec
	CounterHandleRequestPanic prometheus.Counter
	CounterPredictions        *prometheus.CounterVec

	// gauges
	GaugeRequests prometheus.Gauge

	// histograms
	HistRequestDuration *prometheus.HistogramVec
}

// NewTestManager registers a Manager on a throwaway registry.
func NewTestManager() *Manager {
	return NewManager("weighttrend", "test", prometheus.NewRegistry())
}

// NewTestManagerAndRegistry is NewTestManager that also returns the
// registry, for scraping in tests.
func NewTestManagerAndRegistry() (*Manager, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	return NewManager("weighttrend", "test", reg), reg
}

// NewManager creates every instrument under namespace and subsystem and
// registers it with reg. It panics on duplicate registration.
func NewManager(namespace, subsystem string, reg prometheus.Registerer) *Manager {
	factory := promauto.With(reg)

	return &Manager{
		CounterRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "The total number of incoming requests",
		}, []string{"method", "status"}),
		CounterHandleRequestPanic: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "handle_request_panics_total",
			Help:      "The total number of serve request panics",
		}),
		CounterPredictions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "predictions_total",
			Help:      "Computed weight predictions by outcome",
		}, []string{"outcome"}),
		GaugeRequests: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_requests",
			Help:      "Current number of requests served",
		}),
		HistRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// ObservePrediction counts a prediction under its outcome: "available" or
// the reason no prediction was made.
func (m *Manager) ObservePrediction(p trend.Prediction) {
	outcome := "available"
	if !p.Available {
		outcome = string(p.Reason)
	}
	m.CounterPredictions.WithLabelValues(outcome).Inc()
}
