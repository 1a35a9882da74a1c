package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// MobileStrategy hits the carrier's mobile tracking surface with a mobile
// browser profile. Mobile endpoints tend to carry lighter bot defenses than
// the desktop site, which is why this rung exists at all.
type MobileStrategy struct {
	client    *http.Client
	extractor *Extractor
	logger    *zap.Logger
}

// NewMobileStrategy creates a MobileStrategy using the given HTTP client.
func NewMobileStrategy(client *http.Client, extractor *Extractor) *MobileStrategy {
	return &MobileStrategy{
		client:    client,
		extractor: extractor,
		logger:    logger.Get(),
	}
}

// Name implements ports.Strategy.
func (s *MobileStrategy) Name() string { return domain.StrategyMobile }

// Attempt fetches the mobile endpoint and extracts events from the response.
func (s *MobileStrategy) Attempt(ctx context.Context, cfg domain.CarrierConfig, proNumber string) domain.StrategyResult {
	start := time.Now()

	if cfg.MobileEndpoint == "" {
		return domain.Failure(s.Name(), domain.ErrKindNoData, "no mobile endpoint configured", time.Since(start))
	}

	endpoint := fmt.Sprintf(cfg.MobileEndpoint, url.QueryEscape(proNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.Failure(s.Name(), domain.ErrKindTransport, err.Error(), time.Since(start))
	}
	req.Header = headersFor(cfg.Name, true, "")

	resp, err := s.client.Do(req)
	if err != nil {
		kind, detail := classifyErr(ctx, err)
		return domain.Failure(s.Name(), kind, detail, time.Since(start))
	}

	body, err := readBody(resp)
	if err != nil {
		kind, detail := classifyErr(ctx, err)
		return domain.Failure(s.Name(), kind, detail, time.Since(start))
	}

	if marker, blocked := detectBlock(resp.StatusCode, body); blocked {
		s.logger.Debug("Mobile endpoint blocked",
			zap.String("carrier", cfg.Name),
			zap.String("marker", marker),
		)
		return domain.Failure(s.Name(), domain.ErrKindBlocked, "bot defense detected: "+marker, time.Since(start))
	}
	if resp.StatusCode != http.StatusOK {
		return domain.Failure(s.Name(), domain.ErrKindTransport, fmt.Sprintf("unexpected status %d", resp.StatusCode), time.Since(start))
	}

	if event := extractBest(s.extractor, cfg.Name, resp.Header.Get("Content-Type"), body); event != nil {
		return domain.StrategyResult{Strategy: s.Name(), Event: event, Duration: time.Since(start)}
	}
	return domain.Failure(s.Name(), domain.ErrKindNoData, "no events extracted", time.Since(start))
}
