package service

import (
	"strings"

	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
)

// Registry is the static carrier configuration: canonical carrier id to its
// ordered strategy list, endpoint templates, and manual-tracking guidance.
// Built once at startup, read-only afterward.
type Registry struct {
	carriers map[string]domain.CarrierConfig
	aliases  map[string]string
}

// NewRegistry builds a Registry from the given carrier configurations.
func NewRegistry(configs []domain.CarrierConfig) *Registry {
	r := &Registry{
		carriers: make(map[string]domain.CarrierConfig, len(configs)),
		aliases:  make(map[string]string),
	}
	for _, c := range configs {
		r.carriers[c.Name] = c
		for _, a := range c.Aliases {
			r.aliases[normalize(a)] = c.Name
		}
	}
	return r
}

// Resolve maps a caller-facing carrier name (any alias, any case) to its
// configuration. The second return is false when the carrier is unknown.
func (r *Registry) Resolve(name string) (domain.CarrierConfig, bool) {
	key := normalize(name)
	if canonical, ok := r.aliases[key]; ok {
		key = canonical
	}
	cfg, ok := r.carriers[key]
	return cfg, ok
}

// Carriers returns the canonical carrier identifiers.
func (r *Registry) Carriers() []string {
	names := make([]string, 0, len(r.carriers))
	for name := range r.carriers {
		names = append(names, name)
	}
	return names
}

func normalize(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(strings.TrimSpace(name))), " ")
}

// DefaultCarriers returns the built-in LTL carrier table. Endpoint hosts come
// from each carrier's public tracking surface; the ordering of Strategies is
// cheapest and most reliable first.
func DefaultCarriers() []domain.CarrierConfig {
	return []domain.CarrierConfig{
		{
			Name:       "estes",
			Aliases:    []string{"estes express", "estes express lines"},
			Strategies: []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile, domain.StrategyBrowser},
			DirectEndpoints: []string{
				"https://www.estes-express.com/shipment-tracking?pro=%s",
				"https://www.estes-express.com/myestes/shipment-tracking?pro=%s",
			},
			FormURL:        "https://www.estes-express.com/shipment-tracking/track-shipment",
			FormField:      "pro",
			FormExtra:      map[string]string{"trackingAction": "track"},
			MobileEndpoint: "https://www.estes-express.com/track?pro=%s&mobile=1",
			BrowserURL:     "https://www.estes-express.com/myestes/shipment-tracking?pro=%s",
			APIPattern:     "*/api/shipments/track*",
			Guidance:       "Try tracking directly at estes-express.com/shipment-tracking",
		},
		{
			Name:       "fedex",
			Aliases:    []string{"fedex freight", "fedex freight priority", "fedex freight economy"},
			Strategies: []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile, domain.StrategyBrowser},
			DirectEndpoints: []string{
				"https://www.fedex.com/fedextrack/?trackingnumber=%s&cntry_code=us",
				"https://www.fedex.com/trackingCal/track?trackingnumber=%s",
			},
			FormURL:        "https://www.fedex.com/apps/fedextrack/",
			FormField:      "data.trackingNumber",
			FormExtra:      map[string]string{"data.format": "json", "action": "track"},
			MobileEndpoint: "https://mobile.fedex.com/track?trackingnumber=%s",
			BrowserURL:     "https://www.fedex.com/fedextrack/?trackingnumber=%s",
			APIPattern:     "*/trackingCal/track*",
			Guidance:       "Try tracking directly at fedex.com/tracking",
		},
		{
			Name:       "peninsula",
			Aliases:    []string{"peninsula truck lines", "peninsula trucking"},
			Strategies: []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyMobile},
			DirectEndpoints: []string{
				"https://www.peninsulatrucklines.com/tracking?pro=%s",
				"https://peninsulatrucklines.azurewebsites.net/api/tracking?pro=%s",
			},
			FormURL:        "https://www.peninsulatrucklines.com/tracking",
			FormField:      "pro",
			FormExtra:      map[string]string{"action": "track"},
			MobileEndpoint: "https://www.peninsulatrucklines.com/track?pro=%s&mobile=1",
			Guidance:       "Try tracking directly at peninsulatrucklines.com",
		},
		{
			Name:       "averitt",
			Aliases:    []string{"averitt express"},
			Strategies: []string{domain.StrategyDirect, domain.StrategyMobile},
			DirectEndpoints: []string{
				"https://www.averittexpress.com/tracking?pro=%s",
			},
			MobileEndpoint: "https://www.averittexpress.com/tracking?pro=%s&mobile=1",
			Guidance:       "Try tracking directly at averittexpress.com",
		},
		{
			Name:       "rl",
			Aliases:    []string{"r&l", "r&l carriers", "rl carriers"},
			Strategies: []string{domain.StrategyDirect, domain.StrategyForm, domain.StrategyBrowser},
			DirectEndpoints: []string{
				"https://www.rlcarriers.com/Track?pro=%s",
				"https://www.rlcarriers.com/tracking?pro=%s",
			},
			FormURL:    "https://www.rlcarriers.com",
			FormField:  "ctl00$cphBody$ToolsMenu$txtPro",
			BrowserURL: "https://www.rlcarriers.com/Track?pro=%s",
			APIPattern: "*/api/tracking*",
			Guidance:   "Try tracking directly at rlcarriers.com",
		},
	}
}
