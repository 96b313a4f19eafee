// Package aggregate orchestrates fetch, rank, and accumulate across browse
// pages and feed weeks. All entry points validate their inputs before the
// first network call and prefer partial results over total failure: an
// absent page or week is logged and skipped, and an exhausted request
// budget ends the loop with whatever accumulated so far.
package aggregate

import (
	"context"

	"github.com/arnokha/neowatch/pkg/client"
	"github.com/arnokha/neowatch/pkg/logging"
	"github.com/arnokha/neowatch/pkg/neo"
	"github.com/rs/zerolog"
)

// Service drives the aggregation entry points. Each call owns the data it
// builds; the only shared state is the client's immutable configuration.
type Service struct {
	client *client.Client
	logger zerolog.Logger
}

// NewService creates an aggregation service on top of a NeoWs client.
func NewService(c *client.Client) *Service {
	return &Service{
		client: c,
		logger: logging.NewLogger("aggregate"),
	}
}

// NearestMisses traverses browse pages 0..TotalPages-1 and returns, for
// each object on each page, the object's N nearest misses as independent
// deep copies, each carrying exactly one close-approach record. Result
// ordering is page order, then within-page object order, then rank order.
//
// An object with fewer than N recorded approaches fails the call; the
// misses accumulated before the failure are returned alongside the error.
func (s *Service) NearestMisses(ctx context.Context, opts Options) ([]neo.NearEarthObject, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	policy := opts.policy(s.logger)
	var misses []neo.NearEarthObject

	for pageNum := 0; pageNum < opts.TotalPages; pageNum++ {
		page, remaining, err := s.client.BrowsePage(ctx, pageNum, opts.PageSize)
		switch {
		case err != nil:
			s.logger.Error().Err(err).Int("page", pageNum).Msg("Page fetch failed, skipping")
		case page == nil:
			s.logger.Warn().Int("page", pageNum).Msg("No page found, skipping")
		default:
			for _, obj := range page.NearEarthObjects {
				ranked, err := neo.NNearestMisses(obj, opts.N)
				if err != nil {
					return misses, err
				}
				misses = append(misses, ranked...)
			}
			s.logger.Debug().
				Int("page", pageNum).
				Int("objects", len(page.NearEarthObjects)).
				Int("remaining", remaining).
				Msg("Page processed")
		}

		proceed, err := policy.Proceed(ctx, remaining)
		if err != nil {
			return misses, err
		}
		if !proceed {
			return misses, nil
		}
	}

	s.logger.Info().
		Int("pages", opts.TotalPages).
		Int("misses", len(misses)).
		Msg("Nearest misses complete")

	return misses, nil
}

// NearestMissesValues is the dynamically typed front door for
// NearestMisses: type checks run before the range checks, and nothing is
// fetched on invalid input.
func (s *Service) NearestMissesValues(ctx context.Context, n, totalNPages, sleepTime, rateLimitPause, waitForRateLimit any) ([]neo.NearEarthObject, error) {
	opts, err := OptionsFromValues(n, totalNPages, sleepTime, rateLimitPause, waitForRateLimit)
	if err != nil {
		return nil, err
	}
	return s.NearestMisses(ctx, opts)
}

// ClosestApproaches is an alias for NearestMisses with N fixed to 1: each
// object on each traversed page comes back once, its close-approach list
// replaced by the single closest approach.
func (s *Service) ClosestApproaches(ctx context.Context, opts Options) ([]neo.NearEarthObject, error) {
	opts.N = 1
	return s.NearestMisses(ctx, opts)
}
