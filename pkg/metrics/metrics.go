// Package metrics documents the Prometheus metrics exposed by the module.
// Metrics are defined in their owning packages (client, cache, ratelimit)
// to maintain modularity and avoid circular dependencies.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry. All metrics register
// automatically via promauto in their owning packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Reference
//
// Request metrics (pkg/client):
//   - neo_requests_total{endpoint, status} (Counter): requests by endpoint and HTTP status
//   - neo_request_duration_seconds{endpoint} (Histogram): request duration by endpoint
//   - neo_rate_limit_remaining (Gauge): last observed X-RateLimit-Remaining value
//
// Rate limit metrics (pkg/ratelimit):
//   - neo_rate_limit_pauses_total (Counter): pauses taken waiting for the budget to refill
//   - neo_rate_limit_early_returns_total (Counter): fetch loops ended early on an exhausted budget
//
// Cache metrics (pkg/cache):
//   - neo_cache_hits_total (Counter): response cache hits
//   - neo_cache_misses_total (Counter): response cache misses
//   - neo_cache_errors_total{operation} (Counter): cache operation errors
//
// Example queries:
//
//	# Requests left this hour
//	neo_rate_limit_remaining
//
//	# Cache hit rate
//	rate(neo_cache_hits_total[5m]) /
//	(rate(neo_cache_hits_total[5m]) + rate(neo_cache_misses_total[5m]))
//
//	# P95 request latency
//	histogram_quantile(0.95, rate(neo_request_duration_seconds_bucket[5m]))
