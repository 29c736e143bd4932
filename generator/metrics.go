package generator

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	completionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appgenie_completion_requests_total",
			Help: "Total number of requests to the completion API.",
		},
		[]string{"model", "kind", "status"},
	)
	completionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appgenie_completion_duration_seconds",
			Help:    "Histogram of completion API request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"model", "kind"},
	)
	promptTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "appgenie_prompt_tokens",
			Help:    "Estimated prompt token counts per completion request.",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"model", "kind"},
	)
)
