// Package ratelimit implements the request-budget policy applied between
// fetches. The NeoWs API reports the remaining hourly request budget on
// every response via the X-RateLimit-Remaining header; the policy inspects
// that count once per fetched unit, after processing it, and decides
// whether the fetch loop continues.
package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for rate limit decisions.
var (
	ratelimitPausesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neo_rate_limit_pauses_total",
		Help: "Total number of pauses taken waiting for the request budget to refill",
	})

	ratelimitEarlyReturnsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "neo_rate_limit_early_returns_total",
		Help: "Total number of fetch loops terminated early on an exhausted request budget",
	})
)

// RemainingUnknown is reported when the remaining-request count could not
// be determined (missing header, cache hit). The policy treats it as a
// nonzero budget.
const RemainingUnknown = -1

// Policy decides how the fetch loop proceeds after each unit.
type Policy struct {
	// SleepBetween is the deliberate delay between consecutive requests.
	SleepBetween time.Duration

	// Pause is how long to wait for the budget to refill when it reads
	// zero and WaitForReset is set.
	Pause time.Duration

	// WaitForReset selects pause-and-continue over early partial return
	// on an exhausted budget.
	WaitForReset bool

	logger zerolog.Logger
}

// NewPolicy creates a policy with the given pacing parameters.
func NewPolicy(sleepBetween, pause time.Duration, waitForReset bool, logger zerolog.Logger) Policy {
	return Policy{
		SleepBetween: sleepBetween,
		Pause:        pause,
		WaitForReset: waitForReset,
		logger:       logger,
	}
}

// Proceed applies the policy after one fetched unit and reports whether the
// loop should continue. A zero remaining budget either pauses the loop
// (WaitForReset) or terminates it; termination is a defined outcome, not an
// error. The only error returned is context cancellation during a sleep.
func (p Policy) Proceed(ctx context.Context, remaining int) (bool, error) {
	if err := sleep(ctx, p.SleepBetween); err != nil {
		return false, err
	}

	if remaining != 0 {
		return true, nil
	}

	if !p.WaitForReset {
		ratelimitEarlyReturnsTotal.Inc()
		p.logger.Warn().Msg("Request budget exhausted, returning accumulated results")
		return false, nil
	}

	ratelimitPausesTotal.Inc()
	p.logger.Warn().
		Dur("pause", p.Pause).
		Msg("Request budget exhausted, pausing until it refills")

	if err := sleep(ctx, p.Pause); err != nil {
		return false, err
	}
	return true, nil
}

// sleep blocks for d with context cancellation support.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
