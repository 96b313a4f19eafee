// Package cache provides an optional Redis-backed cache for NeoWs API
// responses. Catalog data changes slowly, so re-running an aggregation
// within the TTL costs no request budget. The NeoWs API sends no cache
// headers, so entries expire on a fixed TTL rather than an upstream
// Expires value.
package cache
