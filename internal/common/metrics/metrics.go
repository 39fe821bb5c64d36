package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_requests_total",
			Help: "Total number of pipeline requests by terminal state",
		},
		[]string{"state"},
	)

	GeneratorCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_generator_calls_total",
			Help: "Total number of generator invocations by outcome",
		},
		[]string{"outcome"},
	)

	RepairRounds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_repair_rounds",
			Help:    "Repair rounds consumed per request",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	StageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pipeline_stage_duration_seconds",
			Help: "Duration of each pipeline stage in seconds",
		},
		[]string{"stage"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_cache_lookups_total",
			Help: "Normalization cache lookups by result",
		},
		[]string{"result"},
	)
)
