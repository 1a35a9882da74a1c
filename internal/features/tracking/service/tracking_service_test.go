package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/ratelimit"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStrategy is a canned ports.Strategy that counts invocations.
type stubStrategy struct {
	name   string
	event  *domain.ShipmentEvent
	kind   domain.ErrorKind
	detail string
	calls  int32
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Attempt(_ context.Context, _ domain.CarrierConfig, _ string) domain.StrategyResult {
	atomic.AddInt32(&s.calls, 1)
	if s.event != nil {
		ev := *s.event
		return domain.StrategyResult{Strategy: s.name, Event: &ev}
	}
	return domain.Failure(s.name, s.kind, s.detail, 0)
}

func (s *stubStrategy) callCount() int32 { return atomic.LoadInt32(&s.calls) }

// stubOutcomeCache is an in-memory ports.OutcomeCache.
type stubOutcomeCache struct {
	mu    sync.Mutex
	store map[string]*domain.TrackingOutcome
	saves int
}

func newStubOutcomeCache() *stubOutcomeCache {
	return &stubOutcomeCache{store: make(map[string]*domain.TrackingOutcome)}
}

func (c *stubOutcomeCache) Get(_ context.Context, carrier, pro string) (*domain.TrackingOutcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store[carrier+":"+pro], nil
}

func (c *stubOutcomeCache) Save(_ context.Context, outcome *domain.TrackingOutcome) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saves++
	c.store[outcome.Carrier+":"+outcome.ProNumber] = outcome
	return nil
}

func testRegistry() *Registry {
	return NewRegistry([]domain.CarrierConfig{
		{
			Name:       "estes",
			Aliases:    []string{"estes express"},
			Strategies: []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile},
			Guidance:   "Try tracking directly at estes-express.com/shipment-tracking",
		},
		{
			Name:       "peninsula",
			Strategies: []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile},
			Guidance:   "Try tracking directly at peninsulatrucklines.com",
		},
	})
}

func newTestService(strategies []ports.Strategy, opts Options, cache ports.OutcomeCache) *TrackingService {
	return NewTrackingService(testRegistry(), strategies, ratelimit.New(0), cache, opts)
}

func delivered(confidence float64, location string) *domain.ShipmentEvent {
	return &domain.ShipmentEvent{
		Status:      domain.StatusDelivered,
		Description: "Delivered",
		Timestamp:   time.Date(2026, 2, 3, 14, 22, 0, 0, time.UTC),
		Location:    location,
		Confidence:  confidence,
	}
}

// TestTrack_EarlyExit verifies that a trustworthy event from the first
// strategy stops the chain before later strategies run.
func TestTrack_EarlyExit(t *testing.T) {
	first := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.9, "AKRON, OH")}
	second := &stubStrategy{name: domain.StrategyForm, kind: domain.ErrKindTransport, detail: "unreachable"}
	third := &stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindTransport, detail: "unreachable"}

	svc := newTestService([]ports.Strategy{first, second, third}, Options{}, nil)

	outcome, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	assert.Equal(t, []string{domain.StrategyDirect}, outcome.MethodsAttempted)
	assert.Equal(t, int32(1), first.callCount())
	assert.Equal(t, int32(0), second.callCount())
	assert.Equal(t, int32(0), third.callCount())
}

// TestTrack_AllStrategiesFail verifies the estes scenario: every strategy
// fails with a transport error and the outcome records all of them.
func TestTrack_AllStrategiesFail(t *testing.T) {
	chain := []ports.Strategy{
		&stubStrategy{name: domain.StrategyDirect, kind: domain.ErrKindTransport, detail: "connection refused"},
		&stubStrategy{name: domain.StrategyForm, kind: domain.ErrKindTransport, detail: "connection refused"},
		&stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindTransport, detail: "connection refused"},
	}

	svc := newTestService(chain, Options{}, nil)

	outcome, err := svc.Track(context.Background(), "estes", "0628143046")
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Equal(t, []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile}, outcome.MethodsAttempted)
	assert.Contains(t, outcome.FailureExplanation, "All 3 tracking methods failed")
	assert.Contains(t, outcome.FailureExplanation, domain.StrategyDirect)
	assert.Contains(t, outcome.FailureExplanation, domain.StrategyForm)
	assert.Contains(t, outcome.FailureExplanation, domain.StrategyMobile)
	assert.Contains(t, outcome.FailureExplanation, "3 transport")
	assert.Contains(t, outcome.NextSteps, "estes-express.com")
}

// TestTrack_PeninsulaDeliveredFirstTry verifies the peninsula scenario: the
// first strategy returns a high-confidence Delivered event and the rest of
// the chain never runs.
func TestTrack_PeninsulaDeliveredFirstTry(t *testing.T) {
	first := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.95, "PORT ANGELES, WA")}
	second := &stubStrategy{name: domain.StrategyForm, event: delivered(0.95, "ELSEWHERE, OR")}
	third := &stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindTransport, detail: "unreachable"}

	svc := newTestService([]ports.Strategy{first, second, third}, Options{}, nil)

	outcome, err := svc.Track(context.Background(), "peninsula", "536246554")
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, "PORT ANGELES, WA", outcome.Event.Location)
	assert.Equal(t, int32(0), second.callCount())
	assert.Equal(t, int32(0), third.callCount())
}

// TestTrack_UnknownCarrier verifies an unregistered carrier fails before any
// strategy runs.
func TestTrack_UnknownCarrier(t *testing.T) {
	stub := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.9, "")}
	svc := newTestService([]ports.Strategy{stub}, Options{}, nil)

	outcome, err := svc.Track(context.Background(), "not_a_real_carrier", "12345")

	assert.Nil(t, outcome)
	assert.ErrorIs(t, err, domain.ErrUnknownCarrier)
	assert.Equal(t, int32(0), stub.callCount())
}

// TestTrack_CarrierAliases verifies alias spellings resolve to the canonical
// carrier.
func TestTrack_CarrierAliases(t *testing.T) {
	stub := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.9, "")}
	svc := newTestService([]ports.Strategy{stub}, Options{}, nil)

	outcome, err := svc.Track(context.Background(), "Estes Express", "1234567")
	require.NoError(t, err)

	assert.Equal(t, "estes", outcome.Carrier)
}

// TestTrack_InvalidProNumber verifies malformed input fails fast.
func TestTrack_InvalidProNumber(t *testing.T) {
	stub := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.9, "")}
	svc := newTestService([]ports.Strategy{stub}, Options{}, nil)

	for _, pro := range []string{"", "  ", "ab", "has spaces 123", "way-too-long-to-be-a-pro-number-000"} {
		outcome, err := svc.Track(context.Background(), "estes", pro)
		assert.Nil(t, outcome, "pro %q", pro)
		assert.ErrorIs(t, err, domain.ErrInvalidProNumber, "pro %q", pro)
	}
	assert.Equal(t, int32(0), stub.callCount())
}

// TestTrack_BelowThresholdIsFailure verifies a low-confidence event does not
// produce a success outcome by default.
func TestTrack_BelowThresholdIsFailure(t *testing.T) {
	low := &domain.ShipmentEvent{Status: domain.StatusInTransit, Confidence: 0.4}
	chain := []ports.Strategy{
		&stubStrategy{name: domain.StrategyDirect, event: low},
		&stubStrategy{name: domain.StrategyForm, kind: domain.ErrKindNoData, detail: "no events extracted"},
		&stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindNoData, detail: "no events extracted"},
	}

	svc := newTestService(chain, Options{}, nil)

	outcome, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.Len(t, outcome.MethodsAttempted, 3)
}

// TestTrack_BestEffortReportsPartial verifies best-effort mode reports the
// best below-threshold event instead of failing.
func TestTrack_BestEffortReportsPartial(t *testing.T) {
	low := &domain.ShipmentEvent{Status: domain.StatusUnknown, Description: "page matched", Confidence: 0.4}
	chain := []ports.Strategy{
		&stubStrategy{name: domain.StrategyDirect, event: low},
		&stubStrategy{name: domain.StrategyForm, kind: domain.ErrKindNoData, detail: "no events extracted"},
		&stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindNoData, detail: "no events extracted"},
	}

	svc := newTestService(chain, Options{BestEffort: true}, nil)

	outcome, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, domain.StatusUnknown, outcome.Event.Status)
	assert.NotEmpty(t, outcome.FailureExplanation)
}

// TestTrack_RateLimitSpacing verifies back-to-back requests for one carrier
// are spaced by the configured interval even across distinct PRO numbers.
func TestTrack_RateLimitSpacing(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var sleeps []time.Duration
	limiter := ratelimit.NewWithClock(2*time.Second,
		func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		},
		func(_ context.Context, d time.Duration) error {
			mu.Lock()
			defer mu.Unlock()
			sleeps = append(sleeps, d)
			now = now.Add(d)
			return nil
		},
	)

	stub := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.9, "")}
	svc := NewTrackingService(testRegistry(), []ports.Strategy{stub}, limiter, nil, Options{})

	_, err := svc.Track(context.Background(), "estes", "1111111")
	require.NoError(t, err)
	_, err = svc.Track(context.Background(), "estes", "2222222")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sleeps, 1)
	assert.Equal(t, 2*time.Second, sleeps[0])
}

// TestTrack_ParallelMode verifies bounded-concurrency execution still
// produces a success and a complete attempt list.
func TestTrack_ParallelMode(t *testing.T) {
	chain := []ports.Strategy{
		&stubStrategy{name: domain.StrategyDirect, kind: domain.ErrKindTransport, detail: "unreachable"},
		&stubStrategy{name: domain.StrategyForm, event: delivered(0.9, "TACOMA, WA")},
		&stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindTransport, detail: "unreachable"},
	}

	svc := newTestService(chain, Options{MaxParallel: 3}, nil)

	outcome, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)

	assert.True(t, outcome.Success)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, domain.StatusDelivered, outcome.Event.Status)
}

// TestTrack_ParallelModeAllFail verifies the parallel path records every
// attempted method on total failure.
func TestTrack_ParallelModeAllFail(t *testing.T) {
	chain := []ports.Strategy{
		&stubStrategy{name: domain.StrategyDirect, kind: domain.ErrKindTransport, detail: "unreachable"},
		&stubStrategy{name: domain.StrategyForm, kind: domain.ErrKindBlocked, detail: "bot defense detected: captcha"},
		&stubStrategy{name: domain.StrategyMobile, kind: domain.ErrKindTimeout, detail: "attempt deadline exceeded"},
	}

	svc := newTestService(chain, Options{MaxParallel: 2}, nil)

	outcome, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)

	assert.False(t, outcome.Success)
	assert.ElementsMatch(t,
		[]string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile},
		outcome.MethodsAttempted,
	)
}

// TestTrack_CacheHitSkipsStrategies verifies a cached outcome short-circuits
// the chain.
func TestTrack_CacheHitSkipsStrategies(t *testing.T) {
	cache := newStubOutcomeCache()
	stub := &stubStrategy{name: domain.StrategyDirect, event: delivered(0.9, "")}

	svc := newTestService([]ports.Strategy{stub}, Options{}, cache)

	first, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)
	require.True(t, first.Success)
	assert.Equal(t, 1, cache.saves)

	second, err := svc.Track(context.Background(), "estes", "1234567")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), stub.callCount())
}
