// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Jobs currently being handled by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "worker_job_duration_seconds",
			Help:    "Duration of job processing in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
		[]string{"task_type"},
	)

	CatalogLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_loads_total",
			Help: "Catalog snapshot loads by origin (memory, redis, primary source, embedded)",
		},
		[]string{"origin"},
	)

	CatalogFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_fallbacks_total",
			Help: "Primary catalog source failures absorbed by the embedded dataset",
		},
		[]string{"source"},
	)

	CatalogSchemaWarnings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_schema_warnings_total",
			Help: "Columns substituted or rows skipped while resolving catalog tables",
		},
		[]string{"table"},
	)

	LookupOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_lookup_outcomes_total",
			Help: "Major and subject lookups by outcome",
		},
		[]string{"lookup", "outcome"},
	)
)
