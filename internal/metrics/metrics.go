// Package metrics exposes Prometheus counters for the registry and the launcher.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "appdeck"

// Launch outcomes used as the "outcome" label.
const (
	OutcomeSuccess    = "success"
	OutcomeFailure    = "failure"
	OutcomeStartError = "start_error"
)

// Metrics owns a private Prometheus registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	launches       *prometheus.CounterVec
	launchDuration prometheus.Histogram
	apps           prometheus.Gauge
}

// New creates the collectors together with Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		launches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "launches_total",
				Help:      "App launches by outcome",
			},
			[]string{"outcome"},
		),
		launchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "launch_duration_seconds",
				Help:      "Wall time of launched commands in seconds",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 15, 60, 300},
			},
		),
		apps: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "apps",
				Help:      "Number of registered apps",
			},
		),
	}
	reg.MustRegister(m.launches, m.launchDuration, m.apps)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveLaunch records one finished launch.
func (m *Metrics) ObserveLaunch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.launches.WithLabelValues(outcome).Inc()
	m.launchDuration.Observe(d.Seconds())
}

// SetApps records the current collection size.
func (m *Metrics) SetApps(n int) {
	if m == nil {
		return
	}
	m.apps.Set(float64(n))
}
