package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"

	"go.uber.org/zap"
)

// FormStrategy submits the carrier's public tracking form the way the site's
// own search box would, url-encoded fields and all. Some carriers gate their
// JSON endpoints but still answer an honest form POST.
type FormStrategy struct {
	client    *http.Client
	extractor *Extractor
	logger    *zap.Logger
}

// NewFormStrategy creates a FormStrategy using the given HTTP client.
func NewFormStrategy(client *http.Client, extractor *Extractor) *FormStrategy {
	return &FormStrategy{
		client:    client,
		extractor: extractor,
		logger:    logger.Get(),
	}
}

// Name implements ports.Strategy.
func (s *FormStrategy) Name() string { return domain.StrategyForm }

// Attempt POSTs the tracking form and extracts events from whatever the
// carrier answered with.
func (s *FormStrategy) Attempt(ctx context.Context, cfg domain.CarrierConfig, proNumber string) domain.StrategyResult {
	start := time.Now()

	if cfg.FormURL == "" || cfg.FormField == "" {
		return domain.Failure(s.Name(), domain.ErrKindNoData, "no tracking form configured", time.Since(start))
	}

	form := url.Values{}
	form.Set(cfg.FormField, proNumber)
	for k, v := range cfg.FormExtra {
		form.Set(k, v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.FormURL, strings.NewReader(form.Encode()))
	if err != nil {
		return domain.Failure(s.Name(), domain.ErrKindTransport, err.Error(), time.Since(start))
	}
	req.Header = headersFor(cfg.Name, false, cfg.FormURL)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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
		s.logger.Debug("Form submission blocked",
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
