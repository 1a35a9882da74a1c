package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/proxy"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
)

// BrowserStrategy loads the carrier's tracking page in headless Chromium and
// hijacks the page's own tracking API call, so the JSON arrives with every
// cookie, header, and JS challenge token the real frontend would send. Most
// expensive rung of the chain, so it runs last.
type BrowserStrategy struct {
	proxy     proxy.Settings
	extractor *Extractor
	logger    *zap.Logger
}

// NewBrowserStrategy creates a BrowserStrategy with the given proxy settings.
func NewBrowserStrategy(proxySettings proxy.Settings, extractor *Extractor) *BrowserStrategy {
	return &BrowserStrategy{
		proxy:     proxySettings,
		extractor: extractor,
		logger:    logger.Get(),
	}
}

// Name implements ports.Strategy.
func (s *BrowserStrategy) Name() string { return domain.StrategyBrowser }

// Attempt drives the browser probe. Launch and navigation failures are
// transport errors; a blown deadline is a timeout.
func (s *BrowserStrategy) Attempt(ctx context.Context, cfg domain.CarrierConfig, proNumber string) domain.StrategyResult {
	start := time.Now()

	if cfg.BrowserURL == "" {
		return domain.Failure(s.Name(), domain.ErrKindNoData, "no browser page configured", time.Since(start))
	}

	localProxyAddr, forwarder, err := s.startProxy(ctx)
	if err != nil {
		return domain.Failure(s.Name(), domain.ErrKindTransport, err.Error(), time.Since(start))
	}
	if forwarder != nil {
		defer forwarder.Stop()
	}

	body, err := s.capture(ctx, cfg, proNumber, localProxyAddr)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.Failure(s.Name(), domain.ErrKindTimeout, "timeout waiting for carrier response", time.Since(start))
		}
		return domain.Failure(s.Name(), domain.ErrKindTransport, err.Error(), time.Since(start))
	}

	if marker, blocked := detectBlock(http.StatusOK, body); blocked {
		return domain.Failure(s.Name(), domain.ErrKindBlocked, "bot defense detected: "+marker, time.Since(start))
	}
	if event := extractBest(s.extractor, cfg.Name, "", body); event != nil {
		return domain.StrategyResult{Strategy: s.Name(), Event: event, Duration: time.Since(start)}
	}
	return domain.Failure(s.Name(), domain.ErrKindNoData, "no events extracted", time.Since(start))
}

// startProxy brings up the local forwarding proxy when the configured
// upstream requires credentials Chromium cannot pass itself.
func (s *BrowserStrategy) startProxy(ctx context.Context) (string, *proxy.ForwardingProxy, error) {
	if !s.proxy.HasProxy() {
		return "", nil, nil
	}
	if !s.proxy.HasCredentials() {
		return s.proxy.HostPort(), nil, nil
	}

	forwarder, err := proxy.NewForwardingProxy(s.proxy.FullURL())
	if err != nil {
		return "", nil, fmt.Errorf("failed to create proxy forwarder: %w", err)
	}
	addr, err := forwarder.Start(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("failed to start proxy forwarder: %w", err)
	}
	s.logger.Debug("Local proxy forwarder started", zap.String("local_addr", addr))
	return addr, forwarder, nil
}

// capture launches the browser, navigates to the tracking page, and returns
// either the hijacked API response body or, when no API pattern is
// configured, the rendered page HTML.
func (s *BrowserStrategy) capture(ctx context.Context, cfg domain.CarrierConfig, proNumber, proxyAddr string) ([]byte, error) {
	s.logger.Debug("Launching browser",
		zap.String("carrier", cfg.Name),
		zap.Bool("proxy_enabled", proxyAddr != ""),
	)

	l := launcher.New().
		Context(ctx).
		Headless(true).
		NoSandbox(true)
	if proxyAddr != "" {
		l = l.Proxy(proxyAddr)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().Context(ctx).ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	pageURL := fmt.Sprintf(cfg.BrowserURL, url.QueryEscape(proNumber))
	done := make(chan []byte, 1)

	var body []byte
	err = rod.Try(func() {
		page := browser.MustPage("")

		if cfg.APIPattern != "" {
			router := page.HijackRequests()
			defer router.MustStop()

			router.MustAdd(cfg.APIPattern, func(h *rod.Hijack) {
				if err := h.LoadResponse(s.hijackClient(proxyAddr), true); err != nil {
					s.logger.Debug("Failed to load hijacked response", zap.Error(err))
					return
				}
				select {
				case done <- []byte(h.Response.Body()):
				default:
				}
			})
			go router.Run()

			page.MustNavigate(pageURL)

			select {
			case body = <-done:
			case <-ctx.Done():
				panic(ctx.Err())
			}
			return
		}

		// No API to intercept; settle for the rendered page.
		page.MustNavigate(pageURL)
		page.MustWaitLoad()
		body = []byte(page.MustHTML())
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// hijackClient builds the client used to replay the hijacked request, routed
// through the local proxy when one is active.
func (s *BrowserStrategy) hijackClient(proxyAddr string) *http.Client {
	if proxyAddr == "" {
		return http.DefaultClient
	}
	proxyURL, err := url.Parse(proxyAddr)
	if err != nil {
		s.logger.Error("Failed to parse local proxy URL", zap.Error(err))
		return http.DefaultClient
	}
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		},
		Timeout: 30 * time.Second,
	}
}
