package aggregate

import (
	"context"
	"fmt"

	"github.com/arnokha/neowatch/pkg/neo"
	"github.com/arnokha/neowatch/pkg/validate"
)

// monthStartDays are the canonical 7-day window start days covering a
// calendar month. The final window spills into the next month and is
// filtered per approach date.
var monthStartDays = [...]string{"01", "08", "15", "22", "29"}

// MonthClosestApproaches aggregates feed results for the calendar month
// named by dateStr (YYYY-MM or YYYY-MM-DD, separator per opts.SplitToken).
// The first four week windows are appended wholesale, element counts
// included; the last window keeps only objects whose close-approach date
// falls in the target month. An absent week is logged and skipped.
//
// The week loop honors the rate-limit policy only when opts.HonorRateLimit
// is set; see MonthOptions.
func (s *Service) MonthClosestApproaches(ctx context.Context, dateStr string, opts MonthOptions) (*neo.MonthAggregate, error) {
	token := opts.SplitToken
	if token == "" {
		token = DefaultSplitToken
	}

	year, month, err := validate.Month(dateStr, token)
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	policy := opts.policy(s.logger)
	monthSegment := fmt.Sprintf("%02d", month)
	agg := &neo.MonthAggregate{}

	for i, day := range monthStartDays {
		startDate := fmt.Sprintf("%04d-%02d-%s", year, month, day)
		lastWeek := i == len(monthStartDays)-1

		week, remaining, err := s.client.FeedWeek(ctx, startDate)
		switch {
		case err != nil:
			s.logger.Error().Err(err).Str("start_date", startDate).Msg("Week fetch failed, skipping")
		case week == nil:
			s.logger.Warn().Str("start_date", startDate).Msg("No week found, skipping")
		case !lastWeek:
			agg.ElementCount += week.ElementCount
			agg.NearEarthObjects = append(agg.NearEarthObjects, week.NEOs(startDate)...)
		default:
			// The window starting on the 29th runs into the next month;
			// keep only approaches whose month segment matches.
			for _, obj := range week.NEOs(startDate) {
				if len(obj.CloseApproachData) == 0 {
					continue
				}
				if obj.CloseApproachData[0].DateMonth() != monthSegment {
					continue
				}
				agg.NearEarthObjects = append(agg.NearEarthObjects, obj)
				agg.ElementCount++
			}
		}

		if opts.HonorRateLimit && !lastWeek {
			proceed, err := policy.Proceed(ctx, remaining)
			if err != nil {
				return agg, err
			}
			if !proceed {
				return agg, nil
			}
		}
	}

	s.logger.Info().
		Int("year", year).
		Int("month", month).
		Int("objects", len(agg.NearEarthObjects)).
		Msg("Month aggregation complete")

	return agg, nil
}

// MonthClosestApproachesValue is the dynamically typed front door for
// MonthClosestApproaches: the date must be a string before its format is
// even considered.
func (s *Service) MonthClosestApproachesValue(ctx context.Context, dateStr any, opts MonthOptions) (*neo.MonthAggregate, error) {
	str, err := validate.String("date_str", dateStr)
	if err != nil {
		return nil, err
	}
	return s.MonthClosestApproaches(ctx, str, opts)
}
