package domain

// Strategy names used in carrier configuration and outcome method lists.
const (
	// StrategyDirect probes the carrier's direct tracking endpoints over HTTP GET.
	StrategyDirect = "direct"
	// StrategyForm submits the carrier's public tracking form.
	StrategyForm = "form"
	// StrategyMobile probes the carrier's mobile tracking surface.
	StrategyMobile = "mobile"
	// StrategyBrowser drives a headless browser and captures the page's own API call.
	StrategyBrowser = "browser"
)

// CarrierConfig describes one carrier's public tracking surface. Loaded once at
// startup and treated as read-only afterward.
type CarrierConfig struct {
	// Name is the canonical carrier identifier (e.g. "estes", "peninsula").
	Name string
	// Aliases are alternative caller-facing spellings mapped to this carrier.
	Aliases []string
	// Strategies is the ordered list of strategy names to try, cheapest first.
	Strategies []string
	// DirectEndpoints are URL templates with one %s slot for the PRO number,
	// tried in order by the direct strategy.
	DirectEndpoints []string
	// FormURL is the tracking-form action URL for the form strategy.
	FormURL string
	// FormField is the form parameter name carrying the PRO number.
	FormField string
	// FormExtra holds additional fixed form parameters the carrier expects.
	FormExtra map[string]string
	// MobileEndpoint is the mobile-site URL template with one %s slot.
	MobileEndpoint string
	// BrowserURL is the page the browser strategy loads, with one %s slot.
	BrowserURL string
	// APIPattern is the hijack pattern for the page's own tracking API call.
	APIPattern string
	// Guidance is static manual-tracking advice used in failure outcomes.
	Guidance string
}
