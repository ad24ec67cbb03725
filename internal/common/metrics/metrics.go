// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	InterpretationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_interpretations_total",
			Help: "Total number of booking requests interpreted, by outcome",
		},
		[]string{"outcome"},
	)

	InterpretationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "booking_interpretation_duration_seconds",
			Help:    "Duration of a full interpretation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"outcome"},
	)

	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_model_calls_total",
			Help: "Total number of language model completions, by provider and status",
		},
		[]string{"provider", "status"},
	)

	FieldsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_fields_dropped_total",
			Help: "Number of model-supplied fields discarded during coercion",
		},
		[]string{"field"},
	)

	CompletionCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_completion_cache_lookups_total",
			Help: "Completion cache lookups, by result (hit, miss, error)",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_http_requests_total",
			Help: "HTTP requests served, by route and status",
		},
		[]string{"route", "status"},
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
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)
)
