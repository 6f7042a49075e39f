package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	orchestrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "orchestrations_total",
			Help:      "Total orchestration runs by answering route",
		},
		[]string{"route"},
	)

	llmCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "llm_calls_total",
			Help:      "Total reasoning-model calls",
		},
		[]string{"status"}, // "success", "error"
	)

	llmDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "support",
			Name:      "llm_call_duration_seconds",
			Help:      "Duration of reasoning-model calls in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		},
	)

	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "tool_calls_total",
			Help:      "Total tool dispatches requested by the model",
		},
		[]string{"tool"},
	)

	loopIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "support",
			Name:      "loop_iterations",
			Help:      "Model turns used per agentic run",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6, 8, 10},
		},
	)
)
