package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	reload     prometheus.Histogram
	loadErrors prometheus.Counter
}

// NewMetrics registers the server collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recstats",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recstats",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		reload: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "recstats",
			Name:      "dataset_reload_seconds",
			Help:      "Time spent loading and joining the dataset for one request.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}),
		loadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "recstats",
			Name:      "dataset_load_errors_total",
			Help:      "Dataset loads that failed.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.reload, m.loadErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
