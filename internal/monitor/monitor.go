// Package monitor exposes Prometheus collectors for the service.
package monitor

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration observes HTTP request latency by method and status.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	// RowsIngested counts metric rows committed by ingestion batches.
	RowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metrics_rows_ingested_total",
		Help: "Metric rows committed to the store.",
	})

	// RowsRejected counts rows rejected at parse time.
	RowsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metrics_rows_rejected_total",
		Help: "Raw rows rejected during CSV parsing.",
	})

	// BatchFailures counts ingestion transactions that aborted.
	BatchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "metrics_batch_failures_total",
		Help: "Ingestion batches aborted at persistence time.",
	})
)

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
