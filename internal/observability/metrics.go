// Package observability provides Prometheus metrics and OpenTelemetry
// tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageCacheHits counts responses served straight from the page cache.
	PageCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_page_cache_hits_total",
		Help: "Total number of responses served from the page cache",
	}, []string{"key"})

	// PageCacheMisses counts requests that rendered because no cached body existed.
	PageCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_page_cache_misses_total",
		Help: "Total number of page cache misses that fell through to the handler",
	}, []string{"key"})

	// PageCacheClears counts explicit operator cache clears.
	PageCacheClears = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_page_cache_clears_total",
		Help: "Total number of operator-initiated page cache clears",
	})

	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})
)

// RecordRedisError increments the Redis error counter for the operation.
func RecordRedisError(operation string) {
	RedisErrorRate.WithLabelValues(operation).Inc()
}
