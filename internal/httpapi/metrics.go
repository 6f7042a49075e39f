package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/abhinavk0220/ecommerce-chat-assistant/internal/cache"
)

var (
	chatRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "chat_requests_total",
			Help:      "Total chat requests by terminal outcome",
		},
		[]string{"outcome"}, // "answered", "cached", "blocked", "rejected"
	)

	guardrailBlocksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "guardrail_blocks_total",
			Help:      "Messages refused before reaching the assistant",
		},
		[]string{"reason"},
	)

	cacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "answer_cache_hits_total",
			Help:      "Chat answers served from the response cache",
		},
	)

	cacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "answer_cache_misses_total",
			Help:      "Chat requests that had to run the full pipeline",
		},
	)

	cacheEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "support",
			Name:      "answer_cache_evictions_total",
			Help:      "Cache entries dropped to stay within the size bound",
		},
	)

	chatDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "support",
			Name:      "chat_request_duration_seconds",
			Help:      "End-to-end chat request latency in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		},
	)
)

// CacheHooks returns observability callbacks wired to the cache metrics.
func CacheHooks() cache.Hooks {
	return cache.Hooks{
		OnHit:   cacheHitsTotal.Inc,
		OnMiss:  cacheMissesTotal.Inc,
		OnEvict: cacheEvictionsTotal.Inc,
	}
}
