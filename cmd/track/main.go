package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/config"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/httpclient"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/proxy"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/ratelimit"
	trackingadapter "github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/adapters"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/ports"
	trackingservice "github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/service"

	"github.com/spf13/cobra"
)

// Batch CLI consumer of the tracking service: same fallback chain as the API,
// one outcome JSON object per PRO number on stdout.
func main() {
	var carrier string
	var bestEffort bool

	rootCmd := &cobra.Command{
		Use:   "track --carrier <name> <pro-number> [pro-number...]",
		Short: "Track LTL shipments from the command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			defer logger.Sync()

			svc := buildService(cfg, bestEffort)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			for _, pro := range args {
				outcome, err := svc.Track(context.Background(), carrier, pro)
				if err != nil {
					return fmt.Errorf("tracking %s: %w", pro, err)
				}
				if err := enc.Encode(outcome); err != nil {
					return err
				}
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&carrier, "carrier", "c", "", "carrier name (estes, fedex, peninsula, rl)")
	rootCmd.Flags().BoolVar(&bestEffort, "best-effort", false, "report below-threshold events instead of failing")
	if err := rootCmd.MarkFlagRequired("carrier"); err != nil {
		log.Fatal(err)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// buildService wires the strategy chain the same way the API server does,
// minus the outcome cache: batch runs are usually one-shot.
func buildService(cfg *config.AppConfig, bestEffort bool) *trackingservice.TrackingService {
	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}

	attemptTimeout := time.Duration(cfg.Tracking.AttemptTimeoutSeconds) * time.Second
	client := httpclient.NewClient(attemptTimeout)
	if proxySettings.HasProxy() {
		client = httpclient.NewClientWithProxy(attemptTimeout, proxySettings.FullURL())
	}

	extractor := trackingadapter.NewExtractor()
	strategies := []ports.Strategy{
		trackingadapter.NewDirectStrategy(client, extractor),
		trackingadapter.NewFormStrategy(client, extractor),
		trackingadapter.NewMobileStrategy(client, extractor),
		trackingadapter.NewBrowserStrategy(proxySettings, extractor),
	}

	registry := trackingservice.NewRegistry(trackingservice.DefaultCarriers())
	limiter := ratelimit.New(time.Duration(cfg.Tracking.MinIntervalMillis) * time.Millisecond)

	return trackingservice.NewTrackingService(registry, strategies, limiter, nil, trackingservice.Options{
		SuccessThreshold: cfg.Tracking.SuccessThreshold,
		AttemptTimeout:   attemptTimeout,
		MaxParallel:      cfg.Tracking.MaxParallel,
		BestEffort:       bestEffort || cfg.Tracking.BestEffort,
	})
}
