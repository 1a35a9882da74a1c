package handler

import (
	"net/http"
	"sort"

	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/service"

	"github.com/gofiber/fiber/v2"
)

// CarrierHandler serves the supported-carrier catalog.
type CarrierHandler struct {
	registry *service.Registry
}

// NewCarrierHandler creates a new CarrierHandler.
func NewCarrierHandler(registry *service.Registry) *CarrierHandler {
	return &CarrierHandler{
		registry: registry,
	}
}

// CarrierInfo describes one supported carrier to API clients.
type CarrierInfo struct {
	Name     string   `json:"name"`
	Aliases  []string `json:"aliases,omitempty"`
	Methods  []string `json:"methods"`
	Guidance string   `json:"guidance"`
}

// ListCarriers handles GET /carriers.
// @Summary List supported carriers
// @Description Returns every carrier the tracker can collect events for, with its aliases and extraction methods.
// @Tags carriers
// @Produce json
// @Success 200 {array} CarrierInfo
// @Router /carriers [get]
func (h *CarrierHandler) ListCarriers(c *fiber.Ctx) error {
	names := h.registry.Carriers()
	sort.Strings(names)

	infos := make([]CarrierInfo, 0, len(names))
	for _, name := range names {
		cfg, _ := h.registry.Resolve(name)
		infos = append(infos, CarrierInfo{
			Name:     cfg.Name,
			Aliases:  cfg.Aliases,
			Methods:  cfg.Strategies,
			Guidance: cfg.Guidance,
		})
	}

	return c.Status(http.StatusOK).JSON(infos)
}

// GetCarrier handles GET /carriers/:name.
// @Summary Get one carrier
// @Description Looks up a carrier by canonical name or alias.
// @Tags carriers
// @Produce json
// @Param name path string true "Carrier name or alias"
// @Success 200 {object} CarrierInfo
// @Failure 404 {object} map[string]string
// @Router /carriers/{name} [get]
func (h *CarrierHandler) GetCarrier(c *fiber.Ctx) error {
	cfg, ok := h.registry.Resolve(c.Params("name"))
	if !ok {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{
			"error": "carrier not supported",
		})
	}

	return c.Status(http.StatusOK).JSON(CarrierInfo{
		Name:     cfg.Name,
		Aliases:  cfg.Aliases,
		Methods:  cfg.Strategies,
		Guidance: cfg.Guidance,
	})
}
