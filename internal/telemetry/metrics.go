package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "livepreview"

// Metrics collects build metrics on a private registry. A nil *Metrics records nothing.
type Metrics struct {
	builds           *prometheus.CounterVec
	buildDuration    prometheus.Histogram
	fieldsCompiled   prometheus.Counter
	fieldsSkipped    *prometheus.CounterVec
	bindingsCompiled *prometheus.CounterVec
	scriptBytes      prometheus.Gauge
	hookFilters      *prometheus.CounterVec

	registry *prometheus.Registry
}

// NewMetrics creates a collector with its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		builds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Total number of script builds",
			},
			[]string{"status"},
		),
		buildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of script builds in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
			},
		),
		fieldsCompiled: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fields_compiled_total",
				Help:      "Total number of fields compiled into change procedures",
			},
		),
		fieldsSkipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fields_skipped_total",
				Help:      "Total number of fields left out of compilation",
			},
			[]string{"reason"},
		),
		bindingsCompiled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "bindings_compiled_total",
				Help:      "Total number of variable bindings compiled by handler",
			},
			[]string{"handler"},
		),
		scriptBytes: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "script_bytes",
				Help:      "Size of the most recently built script",
			},
		),
		hookFilters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hook_filters_total",
				Help:      "Total number of hook filter invocations",
			},
			[]string{"hook", "status"},
		),
	}

	registry.MustRegister(
		m.builds,
		m.buildDuration,
		m.fieldsCompiled,
		m.fieldsSkipped,
		m.bindingsCompiled,
		m.scriptBytes,
		m.hookFilters,
	)
	return m
}

// RecordBuild records a finished build.
func (m *Metrics) RecordBuild(status string, duration time.Duration, scriptBytes int) {
	if m == nil {
		return
	}
	m.builds.WithLabelValues(status).Inc()
	m.buildDuration.Observe(duration.Seconds())
	if status == StatusSuccess {
		m.scriptBytes.Set(float64(scriptBytes))
	}
}

// RecordField records one compiled field and the handlers its bindings used.
func (m *Metrics) RecordField(handlers ...string) {
	if m == nil {
		return
	}
	m.fieldsCompiled.Inc()
	for _, h := range handlers {
		m.bindingsCompiled.WithLabelValues(h).Inc()
	}
}

// RecordSkip records a field excluded from compilation.
func (m *Metrics) RecordSkip(reason string) {
	if m == nil {
		return
	}
	m.fieldsSkipped.WithLabelValues(reason).Inc()
}

// RecordHookFilter records one filter invocation on a hook.
func (m *Metrics) RecordHookFilter(hook, status string) {
	if m == nil {
		return
	}
	m.hookFilters.WithLabelValues(hook, status).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Status labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)
