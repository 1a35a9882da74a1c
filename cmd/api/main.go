package main

import (
	"context"
	"log"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/cache"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/config"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/httpclient"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/proxy"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/ratelimit"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/server"
	carrierhandler "github.com/augmentac/ff2api-external-integration-tool/internal/features/carriers/handler"
	trackingadapter "github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/adapters"
	trackinghandler "github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/handler"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/ports"
	trackingservice "github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/service"

	"go.uber.org/zap"
)

// @title Freight Tracker API
// @version 1.0
// @description Collects LTL shipment status from carrier tracking surfaces using a fallback chain of extraction strategies.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Outcome cache is optional; an empty REDIS_URL runs without one.
	var outcomeCache ports.OutcomeCache
	if cfg.Cache.RedisURL != "" {
		redisCache, err := cache.NewRedisAdapter(cfg.Cache.RedisURL)
		if err != nil {
			l.Fatal("Failed to create Redis cache", zap.Error(err))
		}
		defer redisCache.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			cancel()
			l.Fatal("Redis health check failed", zap.Error(err))
		}
		cancel()
		l.Info("Redis connection verified")

		ttl := time.Duration(cfg.Cache.OutcomeTTLSeconds) * time.Second
		outcomeCache = trackingadapter.NewRedisOutcomeCache(redisCache, ttl)
	}

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

	trackingSvc := trackingservice.NewTrackingService(registry, strategies, limiter, outcomeCache, trackingservice.Options{
		SuccessThreshold: cfg.Tracking.SuccessThreshold,
		AttemptTimeout:   attemptTimeout,
		MaxParallel:      cfg.Tracking.MaxParallel,
		BestEffort:       cfg.Tracking.BestEffort,
	})
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)
	carrierHdl := carrierhandler.NewCarrierHandler(registry)

	srv := server.New(cfg)

	srv.App.Get("/tracking/:pro", trackingHdl.Track)
	srv.App.Get("/carriers", carrierHdl.ListCarriers)
	srv.App.Get("/carriers/:name", carrierHdl.GetCarrier)

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
