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

// DirectStrategy probes a carrier's direct tracking endpoints with plain GET
// requests and carrier-tuned browser headers. Cheapest method in the chain,
// so it runs first.
type DirectStrategy struct {
	client    *http.Client
	extractor *Extractor
	logger    *zap.Logger
}

// NewDirectStrategy creates a DirectStrategy using the given HTTP client.
func NewDirectStrategy(client *http.Client, extractor *Extractor) *DirectStrategy {
	return &DirectStrategy{
		client:    client,
		extractor: extractor,
		logger:    logger.Get(),
	}
}

// Name implements ports.Strategy.
func (s *DirectStrategy) Name() string { return domain.StrategyDirect }

// Attempt tries each configured direct endpoint in order until one yields an
// event. Endpoint failures are classified and the last one is reported when
// all endpoints miss.
func (s *DirectStrategy) Attempt(ctx context.Context, cfg domain.CarrierConfig, proNumber string) domain.StrategyResult {
	start := time.Now()

	if len(cfg.DirectEndpoints) == 0 {
		return domain.Failure(s.Name(), domain.ErrKindNoData, "no direct endpoints configured", time.Since(start))
	}

	lastKind := domain.ErrKindNoData
	lastDetail := "no events extracted"

	for _, tmpl := range cfg.DirectEndpoints {
		if ctx.Err() != nil {
			kind, detail := classifyErr(ctx, ctx.Err())
			return domain.Failure(s.Name(), kind, detail, time.Since(start))
		}

		endpoint := fmt.Sprintf(tmpl, url.QueryEscape(proNumber))
		event, kind, detail := s.probe(ctx, cfg, endpoint)
		if event != nil {
			return domain.StrategyResult{Strategy: s.Name(), Event: event, Duration: time.Since(start)}
		}
		lastKind, lastDetail = kind, detail
		s.logger.Debug("Direct endpoint missed",
			zap.String("carrier", cfg.Name),
			zap.String("endpoint", endpoint),
			zap.String("error_kind", string(kind)),
		)
	}

	return domain.Failure(s.Name(), lastKind, lastDetail, time.Since(start))
}

func (s *DirectStrategy) probe(ctx context.Context, cfg domain.CarrierConfig, endpoint string) (*domain.ShipmentEvent, domain.ErrorKind, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, domain.ErrKindTransport, err.Error()
	}
	req.Header = headersFor(cfg.Name, false, "")

	resp, err := s.client.Do(req)
	if err != nil {
		kind, detail := classifyErr(ctx, err)
		return nil, kind, detail
	}

	body, err := readBody(resp)
	if err != nil {
		kind, detail := classifyErr(ctx, err)
		return nil, kind, detail
	}

	if marker, blocked := detectBlock(resp.StatusCode, body); blocked {
		return nil, domain.ErrKindBlocked, "bot defense detected: " + marker
	}
	if resp.StatusCode != http.StatusOK {
		return nil, domain.ErrKindTransport, fmt.Sprintf("unexpected status %d", resp.StatusCode)
	}

	if event := extractBest(s.extractor, cfg.Name, resp.Header.Get("Content-Type"), body); event != nil {
		return event, "", ""
	}
	return nil, domain.ErrKindNoData, "no events extracted"
}
