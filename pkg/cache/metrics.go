package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for cache operations.
var (
	// CacheHits counts cache hits.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neo_cache_hits_total",
		Help: "Total NeoWs response cache hits",
	})

	// CacheMisses counts cache misses.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neo_cache_misses_total",
		Help: "Total NeoWs response cache misses",
	})

	// CacheErrors counts cache operation errors by operation.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neo_cache_errors_total",
		Help: "Total NeoWs response cache errors by operation",
	}, []string{"operation"})
)
