// Package metrics provides Prometheus metrics for Courtside.
//
// Metrics are fed from observability events: a *Metrics is an otel.Sink and
// is wired next to the event log behind otel.Tee.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelbrown/courtside/internal/otel"
)

const namespace = "courtside"

// Metrics holds the collectors and the registry they are registered with.
type Metrics struct {
	reg *prometheus.Registry

	// AdapterRuns counts adapter runs by outcome.
	AdapterRuns *prometheus.CounterVec
	// AdapterItems observes how many items each successful run produced.
	AdapterItems *prometheus.HistogramVec
	// AdapterDuration measures adapter run duration.
	AdapterDuration *prometheus.HistogramVec
	// DateErrors counts per-date request failures inside windowed adapters.
	DateErrors *prometheus.CounterVec
	// PipelineFallback counts merges that returned the fallback bundle.
	PipelineFallback prometheus.Counter
	// PipelineItems observes the size of merged results.
	PipelineItems prometheus.Histogram
	// HTTPRequests counts endpoint responses by method and status.
	HTTPRequests *prometheus.CounterVec
}

// New creates Metrics registered on a fresh registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		AdapterRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adapter_runs_total",
				Help:      "Total number of adapter runs",
			},
			[]string{"adapter", "status"},
		),
		AdapterItems: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "adapter_items",
				Help:      "Distribution of items produced per adapter run",
				Buckets:   []float64{0, 1, 2, 4, 6, 8, 12, 25},
			},
			[]string{"adapter"},
		),
		AdapterDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "adapter_duration_seconds",
				Help:      "Duration of adapter runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"adapter"},
		),
		DateErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "adapter_date_errors_total",
				Help:      "Total number of skipped per-date requests",
			},
			[]string{"adapter"},
		),
		PipelineFallback: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pipeline_fallback_total",
				Help:      "Total number of merges served from the fallback bundle",
			},
		),
		PipelineItems: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "pipeline_items",
				Help:      "Distribution of merged result sizes",
				Buckets:   []float64{0, 5, 10, 15, 20, 25},
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of endpoint responses",
			},
			[]string{"method", "code"},
		),
	}
	reg.MustRegister(
		m.AdapterRuns,
		m.AdapterItems,
		m.AdapterDuration,
		m.DateErrors,
		m.PipelineFallback,
		m.PipelineItems,
		m.HTTPRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Emit records the metric side of an observability event.
func (m *Metrics) Emit(e otel.Event) {
	switch e.Kind {
	case otel.KindAdapterComplete:
		m.AdapterRuns.WithLabelValues(e.Source, "success").Inc()
		m.AdapterItems.WithLabelValues(e.Source).Observe(float64(e.Count))
		m.AdapterDuration.WithLabelValues(e.Source).Observe(e.Dur.Seconds())
	case otel.KindAdapterError:
		m.AdapterRuns.WithLabelValues(e.Source, "error").Inc()
		m.AdapterDuration.WithLabelValues(e.Source).Observe(e.Dur.Seconds())
	case otel.KindAdapterDateError:
		m.DateErrors.WithLabelValues(e.Source).Inc()
	case otel.KindPipelineFallback:
		m.PipelineFallback.Inc()
	case otel.KindPipelineMerge:
		m.PipelineItems.Observe(float64(e.Count))
	case otel.KindHTTPRequest:
		method, _ := e.Extra["method"].(string)
		m.HTTPRequests.WithLabelValues(method, strconv.Itoa(e.Status)).Inc()
	}
}
