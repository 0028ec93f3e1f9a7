package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DiagnosticsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_diagnostics_enqueued_total",
		Help: "Total number of diagnostics placed on the processing queue.",
	})

	DiagnosticsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_diagnostics_dropped_total",
		Help: "Total number of diagnostics rejected due to a full queue.",
	})

	DiagnosticsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_diagnostics_processed_total",
		Help: "Total number of diagnostics run, labelled by outcome kind (ok, parse_error, undiagnosable, …).",
	}, []string{"outcome"})

	DiagnosticDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "balance_diagnostic_duration_ms",
		Help:    "End-to-end diagnostic latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	TreeNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "balance_tree_nodes",
		Help:    "Number of nodes in successfully diagnosed trees.",
		Buckets: prometheus.ExponentialBuckets(8, 4, 8),
	})

	TreeDepth = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "balance_tree_depth",
		Help:    "Number of levels in successfully diagnosed trees.",
		Buckets: []float64{1, 2, 3, 4, 6, 8, 12, 16, 32, 64},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "balance_queue_utilization_ratio",
		Help: "Current diagnostic queue utilization (0–1).",
	})
)
