package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/ratelimit"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/ports"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStrategy is a canned ports.Strategy for handler tests.
type fakeStrategy struct {
	name  string
	event *domain.ShipmentEvent
}

// Name implements ports.Strategy.
func (f *fakeStrategy) Name() string { return f.name }

// Attempt implements ports.Strategy.
func (f *fakeStrategy) Attempt(_ context.Context, _ domain.CarrierConfig, _ string) domain.StrategyResult {
	if f.event == nil {
		return domain.Failure(f.name, domain.ErrKindTransport, "unreachable", 0)
	}
	ev := *f.event
	return domain.StrategyResult{Strategy: f.name, Event: &ev}
}

func newTestApp(strategies ...ports.Strategy) *fiber.App {
	svc := service.NewTrackingService(
		service.NewRegistry(service.DefaultCarriers()),
		strategies,
		ratelimit.New(0),
		nil,
		service.Options{},
	)
	h := NewTrackingHandler(svc)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "test-ray-id")
		return c.Next()
	})
	app.Get("/tracking/:pro", h.Track)
	return app
}

// TestTrackingHandler_Track_Success verifies a successful outcome round-trips
// through the HTTP layer.
func TestTrackingHandler_Track_Success(t *testing.T) {
	app := newTestApp(&fakeStrategy{
		name: domain.StrategyDirect,
		event: &domain.ShipmentEvent{
			Status:      domain.StatusDelivered,
			Description: "Delivered",
			Timestamp:   time.Date(2026, 2, 3, 14, 22, 0, 0, time.UTC),
			Location:    "PORT ANGELES, WA",
			Confidence:  0.95,
		},
	})

	req := httptest.NewRequest("GET", "/tracking/536246554?carrier=peninsula", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var outcome domain.TrackingOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.True(t, outcome.Success)
	assert.Equal(t, "peninsula", outcome.Carrier)
	require.NotNil(t, outcome.Event)
	assert.Equal(t, domain.StatusDelivered, outcome.Event.Status)
}

// TestTrackingHandler_Track_FailedScrapeIsStillOK verifies an exhausted chain
// returns 200 with a structured failure, not an error status.
func TestTrackingHandler_Track_FailedScrapeIsStillOK(t *testing.T) {
	app := newTestApp(
		&fakeStrategy{name: domain.StrategyDirect},
		&fakeStrategy{name: domain.StrategyForm},
		&fakeStrategy{name: domain.StrategyMobile},
	)

	req := httptest.NewRequest("GET", "/tracking/0628143046?carrier=estes", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var outcome domain.TrackingOutcome
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&outcome))
	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.FailureExplanation)
	assert.Contains(t, outcome.NextSteps, "Manual tracking recommended")
}

// TestTrackingHandler_Track_MissingCarrier verifies carrier parameter validation.
func TestTrackingHandler_Track_MissingCarrier(t *testing.T) {
	app := newTestApp(&fakeStrategy{name: domain.StrategyDirect})

	req := httptest.NewRequest("GET", "/tracking/12345", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "carrier query parameter is required")
	assert.Equal(t, "test-ray-id", errResp.RayID)
}

// TestTrackingHandler_Track_UnknownCarrier verifies unsupported carrier response.
func TestTrackingHandler_Track_UnknownCarrier(t *testing.T) {
	app := newTestApp(&fakeStrategy{name: domain.StrategyDirect})

	req := httptest.NewRequest("GET", "/tracking/12345?carrier=unknown", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "carrier not supported")
}

// TestTrackingHandler_Track_MalformedProNumber verifies PRO number validation.
func TestTrackingHandler_Track_MalformedProNumber(t *testing.T) {
	app := newTestApp(&fakeStrategy{name: domain.StrategyDirect})

	req := httptest.NewRequest("GET", "/tracking/x?carrier=estes", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var errResp ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Contains(t, errResp.Message, "pro number is malformed")
}
