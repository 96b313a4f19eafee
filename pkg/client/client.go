// Package client implements the NeoWs catalog API fetchers: one
// synchronous request per invocation against the browse or feed endpoint,
// with the remaining hourly request budget extracted from every response.
// Retry and pacing policy live outside the fetchers, in pkg/ratelimit.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arnokha/neowatch/pkg/cache"
	"github.com/arnokha/neowatch/pkg/neo"
	"github.com/arnokha/neowatch/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RateLimitHeader carries the remaining-requests-this-hour count on every
// NeoWs response, errors included.
const RateLimitHeader = "X-RateLimit-Remaining"

// Default NeoWs endpoints.
const (
	DefaultBrowseURL = "https://api.nasa.gov/neo/rest/v1/neo/browse"
	DefaultFeedURL   = "https://api.nasa.gov/neo/rest/v1/feed"
)

// DefaultPageSize is the browse page size when none is requested.
const DefaultPageSize = 20

// Prometheus metrics for NeoWs requests.
var (
	neoRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "neo_requests_total",
		Help: "Total NeoWs requests by endpoint and status",
	}, []string{"endpoint", "status"})

	neoRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "neo_request_duration_seconds",
		Help:    "NeoWs request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	neoRateLimitRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "neo_rate_limit_remaining",
		Help: "Requests remaining this hour per the last X-RateLimit-Remaining header",
	})
)

// Config holds the fetcher configuration. It is read-only after New.
type Config struct {
	// APIKey is the NeoWs credential (required).
	APIKey string

	// BrowseURL and FeedURL override the NeoWs endpoints, mainly for
	// tests against a mock server.
	BrowseURL string
	FeedURL   string

	// HTTPClient overrides the transport (default: 30s timeout).
	HTTPClient *http.Client

	// Cache enables the Redis response cache when non-nil.
	Cache *cache.Manager
}

// Client fetches pages and weeks from the NeoWs API.
type Client struct {
	httpClient *http.Client
	config     Config
	cache      *cache.Manager
	logger     zerolog.Logger
}

// New creates a NeoWs client.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.BrowseURL == "" {
		cfg.BrowseURL = DefaultBrowseURL
	}
	if cfg.FeedURL == "" {
		cfg.FeedURL = DefaultFeedURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		httpClient: httpClient,
		config:     cfg,
		cache:      cfg.Cache,
		logger:     log.With().Str("component", "neo-client").Logger(),
	}, nil
}

// BrowsePage fetches one page from the browse endpoint. On a 200 response
// it returns the decoded page and the remaining request budget. Any other
// status is logged with its decoded label and yields a nil page plus the
// remaining budget; the loop owner decides what happens next. A remaining
// count of ratelimit.RemainingUnknown means no budget information was
// available (cache hit or missing header).
func (c *Client) BrowsePage(ctx context.Context, page, size int) (*neo.Page, int, error) {
	if size <= 0 {
		size = DefaultPageSize
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("size", strconv.Itoa(size))

	body, remaining, err := c.fetch(ctx, "browse", c.config.BrowseURL, params)
	if err != nil || body == nil {
		return nil, remaining, err
	}

	var decoded neo.Page
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Error().Err(err).Int("page", page).Msg("Failed to decode browse response")
		return nil, remaining, fmt.Errorf("decode browse page %d: %w", page, err)
	}
	return &decoded, remaining, nil
}

// FeedWeek fetches the 7-day feed window starting at startDate
// (YYYY-MM-DD). Same contract shape as BrowsePage.
func (c *Client) FeedWeek(ctx context.Context, startDate string) (*neo.Week, int, error) {
	params := url.Values{}
	params.Set("start_date", startDate)

	body, remaining, err := c.fetch(ctx, "feed", c.config.FeedURL, params)
	if err != nil || body == nil {
		return nil, remaining, err
	}

	var decoded neo.Week
	if err := json.Unmarshal(body, &decoded); err != nil {
		c.logger.Error().Err(err).Str("start_date", startDate).Msg("Failed to decode feed response")
		return nil, remaining, fmt.Errorf("decode feed week %s: %w", startDate, err)
	}
	return &decoded, remaining, nil
}

// fetch issues one GET. It returns the response body for a 200, nil for
// any other status (logged here), and an error for transport failures.
// The credential never appears in cache keys or log fields.
func (c *Client) fetch(ctx context.Context, endpoint, baseURL string, params url.Values) ([]byte, int, error) {
	cacheKey := cache.Key{Endpoint: endpoint, Params: params}
	if c.cache != nil {
		if entry, err := c.cache.Get(ctx, cacheKey); err == nil {
			c.logger.Debug().Str("endpoint", endpoint).Msg("Cache hit")
			return entry.Data, ratelimit.RemainingUnknown, nil
		} else if err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
	}

	query := url.Values{}
	for name, values := range params {
		query[name] = values
	}
	query.Set("api_key", c.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, ratelimit.RemainingUnknown, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	neoRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		neoRequestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().Err(err).Str("endpoint", endpoint).Msg("HTTP request failed")
		return nil, ratelimit.RemainingUnknown, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	remaining := c.remainingFromHeaders(resp.Header)
	neoRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Int("remaining", remaining).
			Msgf("Error: %s", StatusLabel(resp.StatusCode))
		return nil, remaining, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, remaining, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if c.cache != nil {
		entry := &cache.Entry{Data: body, StatusCode: resp.StatusCode, StoredAt: time.Now()}
		if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to cache response")
		}
	}

	return body, remaining, nil
}

// remainingFromHeaders parses the rate limit header. The header is
// expected on every response; when it is absent or malformed the count is
// reported as unknown rather than exhausted.
func (c *Client) remainingFromHeaders(headers http.Header) int {
	value := headers.Get(RateLimitHeader)
	if value == "" {
		c.logger.Warn().Str("header", RateLimitHeader).Msg("Rate limit header missing")
		return ratelimit.RemainingUnknown
	}

	remaining, err := strconv.Atoi(value)
	if err != nil {
		c.logger.Warn().Err(err).Str("header", RateLimitHeader).Msg("Malformed rate limit header")
		return ratelimit.RemainingUnknown
	}

	neoRateLimitRemaining.Set(float64(remaining))
	return remaining
}
