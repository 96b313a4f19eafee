package aggregate

import (
	"fmt"
	"time"

	"github.com/arnokha/neowatch/pkg/client"
	"github.com/arnokha/neowatch/pkg/ratelimit"
	"github.com/arnokha/neowatch/pkg/validate"
	"github.com/rs/zerolog"
)

// Accepted bounds for the aggregation parameters.
const (
	MinMisses = 1
	MaxMisses = 100

	MinPages = 1
	MaxPages = 1500

	// Sleep time is expressed in seconds, the rate limit pause in
	// minutes; both share the same accepted interval.
	MinSleep = 0
	MaxSleep = 10_000
)

// DefaultSplitToken separates the year and month segments of a date
// string unless the caller picks another token.
const DefaultSplitToken = "-"

// Options configures the page-based entry points.
type Options struct {
	// N is the number of nearest misses to derive per object, in [1, 100].
	N int

	// TotalPages is how many browse pages to traverse, in [1, 1500].
	TotalPages int

	// PageSize is the browse page size (default 20).
	PageSize int

	// SleepSeconds is the delay between consecutive requests, in [0, 10000].
	SleepSeconds float64

	// PauseMinutes is how long to pause on an exhausted request budget
	// when WaitForRateLimit is set, in [0, 10000].
	PauseMinutes float64

	// WaitForRateLimit selects pause-and-continue over early partial
	// return when the request budget reads zero.
	WaitForRateLimit bool
}

// DefaultOptions mirrors the catalog defaults: ten misses per object, one
// page, a tenth-of-a-second pacing delay, and a one hour pause.
func DefaultOptions() Options {
	return Options{
		N:                10,
		TotalPages:       1,
		PageSize:         client.DefaultPageSize,
		SleepSeconds:     0.1,
		PauseMinutes:     60,
		WaitForRateLimit: false,
	}
}

// Validate range-checks the options. Type checks live in
// OptionsFromValues; a typed Options cannot hold a wrong type.
func (o Options) Validate() error {
	if err := validate.Range("n", float64(o.N), MinMisses, MaxMisses); err != nil {
		return err
	}
	if err := validate.Range("total_n_pages", float64(o.TotalPages), MinPages, MaxPages); err != nil {
		return err
	}
	// PageSize zero means "use the default"; anything else must be positive.
	if o.PageSize < 0 {
		return fmt.Errorf("%w: page_size must be positive", validate.ErrRange)
	}
	if err := validate.Range("sleep_time", o.SleepSeconds, MinSleep, MaxSleep); err != nil {
		return err
	}
	if err := validate.Range("rate_limit_pause", o.PauseMinutes, MinSleep, MaxSleep); err != nil {
		return err
	}
	return nil
}

// OptionsFromValues builds Options from dynamically typed values, the form
// untyped callers (CLI flags, JSON configs) hand over. Type checks run
// first, then the range checks: n and total_n_pages must be integers,
// sleep_time and rate_limit_pause numeric, wait_for_rate_limit boolean.
func OptionsFromValues(n, totalNPages, sleepTime, rateLimitPause, waitForRateLimit any) (Options, error) {
	opts := DefaultOptions()

	nVal, err := validate.Int("n", n)
	if err != nil {
		return Options{}, err
	}
	pagesVal, err := validate.Int("total_n_pages", totalNPages)
	if err != nil {
		return Options{}, err
	}
	sleepVal, err := validate.Number("sleep_time", sleepTime)
	if err != nil {
		return Options{}, err
	}
	pauseVal, err := validate.Number("rate_limit_pause", rateLimitPause)
	if err != nil {
		return Options{}, err
	}
	waitVal, err := validate.Bool("wait_for_rate_limit", waitForRateLimit)
	if err != nil {
		return Options{}, err
	}

	opts.N = nVal
	opts.TotalPages = pagesVal
	opts.SleepSeconds = sleepVal
	opts.PauseMinutes = pauseVal
	opts.WaitForRateLimit = waitVal

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// policy builds the rate-limit policy the options describe.
func (o Options) policy(logger zerolog.Logger) ratelimit.Policy {
	return ratelimit.NewPolicy(
		time.Duration(o.SleepSeconds*float64(time.Second)),
		time.Duration(o.PauseMinutes*float64(time.Minute)),
		o.WaitForRateLimit,
		logger,
	)
}

// MonthOptions configures the month aggregation entry point.
type MonthOptions struct {
	// SplitToken separates the year and month segments of the date
	// string (default "-").
	SplitToken string

	// HonorRateLimit applies the rate-limit policy to the week-fetch
	// loop. Off by default: a month costs at most five requests, well
	// inside the hourly budget.
	HonorRateLimit bool

	// SleepSeconds, PauseMinutes, and WaitForRateLimit parameterize the
	// policy when HonorRateLimit is set.
	SleepSeconds     float64
	PauseMinutes     float64
	WaitForRateLimit bool
}

// DefaultMonthOptions returns the default month configuration.
func DefaultMonthOptions() MonthOptions {
	return MonthOptions{
		SplitToken:     DefaultSplitToken,
		HonorRateLimit: false,
		SleepSeconds:   0.1,
		PauseMinutes:   60,
	}
}

// Validate range-checks the policy knobs when they are in play.
func (m MonthOptions) Validate() error {
	if !m.HonorRateLimit {
		return nil
	}
	if err := validate.Range("sleep_time", m.SleepSeconds, MinSleep, MaxSleep); err != nil {
		return err
	}
	return validate.Range("rate_limit_pause", m.PauseMinutes, MinSleep, MaxSleep)
}

// policy builds the week-loop policy.
func (m MonthOptions) policy(logger zerolog.Logger) ratelimit.Policy {
	return ratelimit.NewPolicy(
		time.Duration(m.SleepSeconds*float64(time.Second)),
		time.Duration(m.PauseMinutes*float64(time.Minute)),
		m.WaitForRateLimit,
		logger,
	)
}
