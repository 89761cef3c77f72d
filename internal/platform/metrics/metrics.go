// Package metrics defines the Prometheus instrumentation for the bars pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics exposed by the service.
type Metrics struct {
	BarsFetched     prometheus.Counter   // bars returned by the upstream source
	BarsWritten     prometheus.Counter   // bars newly written to the store
	IngestDuration  prometheus.Histogram // end-to-end ingest latency
	ComputeDuration prometheus.Histogram // indicator computation latency

	registry *prometheus.Registry
}

// New creates and registers all metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		BarsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_bars_fetched_total",
			Help: "Number of bars returned by the market data source.",
		}),
		BarsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_bars_written_total",
			Help: "Number of bars newly written to the store.",
		}),
		IngestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_ingest_duration_seconds",
			Help:    "Duration of a full fetch-and-store ingestion.",
			Buckets: prometheus.DefBuckets,
		}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_indicator_compute_duration_seconds",
			Help:    "Duration of an indicator series computation.",
			Buckets: prometheus.DefBuckets,
		}),
		registry: reg,
	}
	reg.MustRegister(m.BarsFetched, m.BarsWritten, m.IngestDuration, m.ComputeDuration)
	return m
}

// Handler returns the HTTP handler serving the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
