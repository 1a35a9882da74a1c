package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/core/ratelimit"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// proPattern accepts the PRO number shapes LTL carriers hand out: digits with
// optional dashes, occasionally an alpha prefix.
var proPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]{2,24}$`)

// Options tunes the orchestration thresholds. The numeric cutoffs are design
// choices calibrated empirically, so they are configuration rather than
// constants.
type Options struct {
	// SuccessThreshold is the minimum event confidence for an early exit.
	SuccessThreshold float64
	// AttemptTimeout bounds each individual strategy attempt.
	AttemptTimeout time.Duration
	// MaxParallel caps concurrent strategy attempts within one request.
	// Values below 2 mean the configured fallback order runs sequentially.
	MaxParallel int
	// BestEffort reports the best below-threshold event as a success instead
	// of failing the request outright.
	BestEffort bool
}

// TrackingService orchestrates a tracking request across the carrier's
// configured extraction strategies: rate-limit gate, priority-ordered
// attempts, early exit on a trustworthy event, event prioritization, and a
// structured outcome either way. Scraping failures never surface as errors.
type TrackingService struct {
	registry   *Registry
	strategies map[string]ports.Strategy
	limiter    *ratelimit.Limiter
	cache      ports.OutcomeCache
	opts       Options
	logger     *zap.Logger
}

// NewTrackingService creates a TrackingService. cache may be nil to disable
// outcome caching.
func NewTrackingService(registry *Registry, strategies []ports.Strategy, limiter *ratelimit.Limiter, cache ports.OutcomeCache, opts Options) *TrackingService {
	byName := make(map[string]ports.Strategy, len(strategies))
	for _, st := range strategies {
		byName[st.Name()] = st
	}
	if opts.SuccessThreshold <= 0 {
		opts.SuccessThreshold = 0.6
	}
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = 20 * time.Second
	}
	return &TrackingService{
		registry:   registry,
		strategies: byName,
		limiter:    limiter,
		cache:      cache,
		opts:       opts,
		logger:     logger.Get(),
	}
}

// Track runs the full fallback chain for one PRO number. The only error
// returns are domain.ErrInvalidProNumber and domain.ErrUnknownCarrier; every
// other failure mode is folded into the returned outcome.
func (s *TrackingService) Track(ctx context.Context, carrier, proNumber string) (*domain.TrackingOutcome, error) {
	proNumber = strings.TrimSpace(proNumber)
	if !proPattern.MatchString(proNumber) {
		return nil, domain.ErrInvalidProNumber
	}

	cfg, ok := s.registry.Resolve(carrier)
	if !ok {
		return nil, domain.ErrUnknownCarrier
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, cfg.Name, proNumber)
		if err != nil {
			s.logger.Warn("Outcome cache lookup failed", zap.Error(err))
		} else if cached != nil {
			s.logger.Debug("Outcome served from cache",
				zap.String("carrier", cfg.Name),
				zap.String("pro_number", proNumber),
			)
			return cached, nil
		}
	}

	chain := s.resolveChain(cfg)

	var outcome *domain.TrackingOutcome
	if s.opts.MaxParallel > 1 {
		outcome = s.trackParallel(ctx, cfg, proNumber, chain)
	} else {
		outcome = s.trackSequential(ctx, cfg, proNumber, chain)
	}

	if s.cache != nil && outcome.Success {
		if err := s.cache.Save(ctx, outcome); err != nil {
			s.logger.Warn("Outcome cache save failed", zap.Error(err))
		}
	}

	s.logger.Info("Tracking request finished",
		zap.String("carrier", cfg.Name),
		zap.String("pro_number", proNumber),
		zap.Bool("success", outcome.Success),
		zap.Strings("methods_attempted", outcome.MethodsAttempted),
	)
	return outcome, nil
}

// resolveChain maps the carrier's configured strategy names onto registered
// implementations, preserving order. Unregistered names are skipped.
func (s *TrackingService) resolveChain(cfg domain.CarrierConfig) []ports.Strategy {
	chain := make([]ports.Strategy, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		st, ok := s.strategies[name]
		if !ok {
			s.logger.Warn("Configured strategy has no registered implementation",
				zap.String("carrier", cfg.Name),
				zap.String("strategy", name),
			)
			continue
		}
		chain = append(chain, st)
	}
	return chain
}

// trackSequential runs the chain in fallback order, stopping at the first
// trustworthy event.
func (s *TrackingService) trackSequential(ctx context.Context, cfg domain.CarrierConfig, proNumber string, chain []ports.Strategy) *domain.TrackingOutcome {
	attempted := make([]string, 0, len(chain))
	var candidates []domain.ShipmentEvent
	var results []domain.StrategyResult

	for _, st := range chain {
		if err := s.limiter.Acquire(ctx, cfg.Name); err != nil {
			s.logger.Warn("Rate limiter wait aborted", zap.Error(err))
			break
		}

		attempted = append(attempted, st.Name())
		res := s.runAttempt(ctx, st, cfg, proNumber)
		results = append(results, res)

		if res.OK() {
			candidates = append(candidates, *res.Event)
			if res.Event.Trustworthy(s.opts.SuccessThreshold) {
				return s.successOutcome(cfg, proNumber, attempted, res.Event)
			}
		}
	}

	return s.finish(cfg, proNumber, attempted, candidates, results)
}

// trackParallel runs the chain with bounded concurrency. The first trustworthy
// event cancels the shared context; in-flight strategies observe the
// cancellation cooperatively between I/O steps. The rate limiter still spaces
// outbound attempts per carrier.
func (s *TrackingService) trackParallel(ctx context.Context, cfg domain.CarrierConfig, proNumber string, chain []ports.Strategy) *domain.TrackingOutcome {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, s.opts.MaxParallel)
	resCh := make(chan domain.StrategyResult, len(chain))

	var mu sync.Mutex
	attempted := make([]string, 0, len(chain))

	var wg sync.WaitGroup
	for _, st := range chain {
		wg.Add(1)
		go func(st ports.Strategy) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-runCtx.Done():
				return
			}

			if err := s.limiter.Acquire(runCtx, cfg.Name); err != nil {
				return
			}

			mu.Lock()
			attempted = append(attempted, st.Name())
			mu.Unlock()

			res := s.runAttempt(runCtx, st, cfg, proNumber)
			resCh <- res

			if res.OK() && res.Event.Trustworthy(s.opts.SuccessThreshold) {
				cancel()
			}
		}(st)
	}
	wg.Wait()
	close(resCh)

	var candidates []domain.ShipmentEvent
	var results []domain.StrategyResult
	for res := range resCh {
		results = append(results, res)
		if res.OK() {
			candidates = append(candidates, *res.Event)
		}
	}

	if best := domain.SelectBest(candidates); best != nil && best.Trustworthy(s.opts.SuccessThreshold) {
		return s.successOutcome(cfg, proNumber, attempted, best)
	}
	return s.finish(cfg, proNumber, attempted, candidates, results)
}

// runAttempt invokes one strategy under the per-attempt timeout.
func (s *TrackingService) runAttempt(ctx context.Context, st ports.Strategy, cfg domain.CarrierConfig, proNumber string) domain.StrategyResult {
	attemptCtx, cancel := context.WithTimeout(ctx, s.opts.AttemptTimeout)
	defer cancel()

	s.logger.Debug("Running extraction strategy",
		zap.String("carrier", cfg.Name),
		zap.String("pro_number", proNumber),
		zap.String("strategy", st.Name()),
	)
	res := st.Attempt(attemptCtx, cfg, proNumber)

	if res.OK() {
		s.logger.Debug("Strategy produced an event",
			zap.String("strategy", res.Strategy),
			zap.String("status", string(res.Event.Status)),
			zap.Float64("confidence", res.Event.Confidence),
			zap.Duration("duration", res.Duration),
		)
	} else {
		s.logger.Debug("Strategy failed",
			zap.String("strategy", res.Strategy),
			zap.String("error_kind", string(res.ErrKind)),
			zap.String("detail", res.Detail),
			zap.Duration("duration", res.Duration),
		)
	}
	return res
}

// finish builds the terminal outcome once no early exit fired: a best-effort
// success when configured and any candidate exists, otherwise a structured
// failure naming every attempted method.
func (s *TrackingService) finish(cfg domain.CarrierConfig, proNumber string, attempted []string, candidates []domain.ShipmentEvent, results []domain.StrategyResult) *domain.TrackingOutcome {
	best := domain.SelectBest(candidates)

	if best != nil && best.Trustworthy(s.opts.SuccessThreshold) {
		return s.successOutcome(cfg, proNumber, attempted, best)
	}
	if best != nil && s.opts.BestEffort {
		out := s.successOutcome(cfg, proNumber, attempted, best)
		out.FailureExplanation = "Result is below the confidence threshold and reported on a best-effort basis."
		return out
	}

	return &domain.TrackingOutcome{
		ProNumber:          proNumber,
		Carrier:            cfg.Name,
		Success:            false,
		MethodsAttempted:   attempted,
		FailureExplanation: failureExplanation(attempted, results),
		NextSteps:          "Manual tracking recommended: " + cfg.Guidance,
	}
}

func (s *TrackingService) successOutcome(cfg domain.CarrierConfig, proNumber string, attempted []string, event *domain.ShipmentEvent) *domain.TrackingOutcome {
	return &domain.TrackingOutcome{
		ProNumber:        proNumber,
		Carrier:          cfg.Name,
		Success:          true,
		Event:            event,
		MethodsAttempted: attempted,
	}
}

// failureExplanation synthesizes the human-readable summary for an exhausted
// chain, naming each attempted method and tallying failure kinds.
func failureExplanation(attempted []string, results []domain.StrategyResult) string {
	if len(attempted) == 0 {
		return "No tracking methods could be attempted."
	}

	kinds := make(map[domain.ErrorKind]int)
	for _, res := range results {
		if !res.OK() {
			kinds[res.ErrKind]++
		}
	}

	parts := make([]string, 0, len(kinds))
	for _, kind := range []domain.ErrorKind{domain.ErrKindTimeout, domain.ErrKindTransport, domain.ErrKindBlocked, domain.ErrKindNoData} {
		if n := kinds[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind))
		}
	}

	msg := fmt.Sprintf("All %d tracking methods failed (%s).", len(attempted), strings.Join(attempted, ", "))
	if len(parts) > 0 {
		msg += " Failures: " + strings.Join(parts, ", ") + "."
	}
	return msg
}
