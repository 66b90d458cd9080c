package question

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "trivia"

var (
	columnsAssembled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "columns_assembled_total",
			Help:      "Columns assembled with all five slots filled",
		},
		[]string{"kind"},
	)
	columnsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "columns_dropped_total",
			Help:      "Categories excluded from the board",
		},
		[]string{"kind", "reason"}, // reason: provider_error, insufficient, panic, no_provider
	)
	providerRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "provider",
			Name:      "rate_limit_retries_total",
			Help:      "Retries caused by upstream rate limiting",
		},
		[]string{"source"},
	)
	degradedBackfills = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "provider",
			Name:      "degraded_backfills_total",
			Help:      "Questions filled with previously seen material",
		},
		[]string{"kind"},
	)
	pipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full game data pipeline run",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 80, 160},
		},
	)
)
