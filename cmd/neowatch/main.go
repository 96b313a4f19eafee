// neowatch pulls Near-Earth-Object close-approach data from the NASA NeoWs
// catalog and prints derived views as JSON.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/arnokha/neowatch/pkg/aggregate"
	"github.com/arnokha/neowatch/pkg/cache"
	"github.com/arnokha/neowatch/pkg/client"
	"github.com/arnokha/neowatch/pkg/config"
	"github.com/arnokha/neowatch/pkg/logging"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	flagN          int
	flagPages      int
	flagPageSize   int
	flagSleep      float64
	flagPause      float64
	flagWait       bool
	flagSplitToken string
	flagHonorLimit bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neowatch",
		Short: "Near-Earth-Object close-approach views from the NASA NeoWs catalog",
	}

	rootCmd.PersistentFlags().Float64Var(&flagSleep, "sleep", 0.1, "seconds to sleep between requests")
	rootCmd.PersistentFlags().Float64Var(&flagPause, "pause", 60, "minutes to pause when the request budget is exhausted")
	rootCmd.PersistentFlags().BoolVar(&flagWait, "wait", false, "wait for the request budget to refill instead of returning partial results")

	rootCmd.AddCommand(newMissesCmd(), newClosestCmd(), newMonthCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newMissesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "misses",
		Short: "N nearest misses per object across browse pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := setup(cmd)
			if err != nil {
				return err
			}
			misses, err := svc.NearestMisses(cmd.Context(), pageOptions())
			if err != nil {
				return err
			}
			return emit(misses)
		},
	}
	addPageFlags(cmd)
	return cmd
}

func newClosestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "closest",
		Short: "Single closest approach per object across browse pages",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := setup(cmd)
			if err != nil {
				return err
			}
			approaches, err := svc.ClosestApproaches(cmd.Context(), pageOptions())
			if err != nil {
				return err
			}
			return emit(approaches)
		},
	}
	addPageFlags(cmd)
	return cmd
}

func newMonthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "month <date>",
		Short: "Aggregated approaches for a calendar month (date: YYYY-MM or YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := setup(cmd)
			if err != nil {
				return err
			}
			opts := aggregate.MonthOptions{
				SplitToken:       flagSplitToken,
				HonorRateLimit:   flagHonorLimit,
				SleepSeconds:     flagSleep,
				PauseMinutes:     flagPause,
				WaitForRateLimit: flagWait,
			}
			month, err := svc.MonthClosestApproaches(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}
			return emit(month)
		},
	}
	cmd.Flags().StringVar(&flagSplitToken, "split-token", aggregate.DefaultSplitToken, "token separating year and month in the date argument")
	cmd.Flags().BoolVar(&flagHonorLimit, "honor-rate-limit", false, "apply the rate-limit policy to the week-fetch loop")
	return cmd
}

func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&flagN, "misses", "n", 10, "nearest misses per object")
	cmd.Flags().IntVar(&flagPages, "pages", 1, "browse pages to traverse")
	cmd.Flags().IntVar(&flagPageSize, "page-size", client.DefaultPageSize, "objects per browse page")
}

func pageOptions() aggregate.Options {
	return aggregate.Options{
		N:                flagN,
		TotalPages:       flagPages,
		PageSize:         flagPageSize,
		SleepSeconds:     flagSleep,
		PauseMinutes:     flagPause,
		WaitForRateLimit: flagWait,
	}
}

// setup wires config, logging, optional cache and metrics, and the client.
func setup(cmd *cobra.Command) (*aggregate.Service, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
		Output: os.Stderr,
	})

	clientCfg := client.Config{
		APIKey:    cfg.APIKey,
		BrowseURL: cfg.BrowseURL,
		FeedURL:   cfg.FeedURL,
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
		}
		clientCfg.Cache = cache.NewManager(redisClient, cache.DefaultTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("Response cache enabled")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
		log.Info().Str("addr", cfg.MetricsAddr).Msg("Metrics endpoint enabled")
	}

	neoClient, err := client.New(clientCfg)
	if err != nil {
		return nil, err
	}
	return aggregate.NewService(neoClient), nil
}

func emit(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
