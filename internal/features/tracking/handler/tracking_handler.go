package handler

import (
	"errors"

	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// TrackingHandler handles HTTP requests for tracking operations.
type TrackingHandler struct {
	trackingService *service.TrackingService
}

// NewTrackingHandler creates a new TrackingHandler.
func NewTrackingHandler(trackingService *service.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// Track godoc
// @Summary Track an LTL shipment
// @Description Runs the carrier's extraction strategy chain for a PRO number and returns the best event found. A failed scrape is still a 200 with success=false and manual-tracking guidance.
// @Tags tracking
// @Accept json
// @Produce json
// @Param pro path string true "PRO Number"
// @Param carrier query string true "Carrier name (e.g., estes, fedex, peninsula, rl)"
// @Success 200 {object} domain.TrackingOutcome
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /tracking/{pro} [get]
func (h *TrackingHandler) Track(c *fiber.Ctx) error {
	proNumber := c.Params("pro")
	if proNumber == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "pro number is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	carrier := c.Query("carrier")
	if carrier == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "carrier query parameter is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	outcome, err := h.trackingService.Track(c.Context(), carrier, proNumber)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownCarrier) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Message: "carrier not supported",
				RayID:   c.Locals("requestid").(string),
			})
		}
		if errors.Is(err, domain.ErrInvalidProNumber) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Message: "pro number is malformed",
				RayID:   c.Locals("requestid").(string),
			})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(outcome)
}
