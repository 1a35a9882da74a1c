package adapter

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/augmentac/ff2api-external-integration-tool/internal/core/logger"
	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// statusKeywords maps event text fragments to coarse shipment statuses.
// Order matters: more terminal states are checked first so "delivered" beats
// the "delivery" in "out for delivery" lookups and vice versa.
var statusKeywords = []struct {
	status   domain.ShipmentStatus
	keywords []string
}{
	{domain.StatusDelivered, []string{"delivered", "delivery complete", "delivered to", "proof of delivery"}},
	{domain.StatusOutForDelivery, []string{"out for delivery", "on vehicle", "with driver", "on delivery vehicle"}},
	{domain.StatusInTransit, []string{"in transit", "on the way", "en route", "departed", "at terminal", "arrived at", "received at", "left facility"}},
	{domain.StatusPickedUp, []string{"picked up", "origin scan", "pickup", "at origin"}},
}

// carrierEventSelectors are the CSS selectors for event rows on each
// carrier's tracking page, with a generic fallback appended.
var carrierEventSelectors = map[string]string{
	"fedex":     `[data-testid="TrackingEvent"], .tracking-event, .scan-event`,
	"estes":     `.tracking-history-item, .status-event, .shipment-event`,
	"peninsula": `.tracking-row, .shipment-status, .track-event`,
	"rl":        `.tracking-detail-row, .shipment-event, tr.trace-row`,
}

const genericEventSelector = `.tracking-event, .shipment-event, .status-row, .tracking-history-item`

// timestampPattern finds US-style and ISO timestamps inside free event text.
var timestampPattern = regexp.MustCompile(
	`\d{1,2}/\d{1,2}/\d{4}[ ,]+\d{1,2}:\d{2}(?::\d{2})?(?:\s*[AP]M)?` +
		`|\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(?::\d{2})?` +
		`|\d{1,2}/\d{1,2}/\d{4}`)

var timestampLayouts = []string{
	"1/2/2006 3:04:05 PM",
	"1/2/2006 3:04 PM",
	"1/2/2006, 3:04 PM",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"1/2/2006",
}

// locationPattern matches "CITY, ST" place names in event text.
var locationPattern = regexp.MustCompile(`\b([A-Z][A-Za-z .'-]+,\s*[A-Z]{2})\b`)

// blockMarkers are body fragments that identify an explicit bot-defense
// response rather than an ordinary failure.
var blockMarkers = []string{
	"captcha",
	"cf-browser-verification",
	"cf-challenge",
	"attention required",
	"access denied",
	"pardon our interruption",
	"are you a human",
	"incapsula",
	"request unsuccessful",
	"verify you are human",
}

// detectBlock reports whether the response is a bot-defense signal, with the
// marker that tripped it.
func detectBlock(statusCode int, body []byte) (string, bool) {
	if statusCode == 403 || statusCode == 429 {
		return "http " + httpStatusText(statusCode), true
	}
	lower := strings.ToLower(string(body))
	for _, marker := range blockMarkers {
		if strings.Contains(lower, marker) {
			return marker, true
		}
	}
	return "", false
}

func httpStatusText(code int) string {
	if code == 403 {
		return "403 forbidden"
	}
	return "429 too many requests"
}

// classifyStatus maps free event text onto a coarse status.
func classifyStatus(text string) domain.ShipmentStatus {
	lower := strings.ToLower(text)
	for _, group := range statusKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(lower, kw) {
				return group.status
			}
		}
	}
	return domain.StatusUnknown
}

// parseEventTime extracts and parses the first timestamp found in the text.
// Returns the zero time when nothing parses.
func parseEventTime(text string) time.Time {
	match := timestampPattern.FindString(text)
	if match == "" {
		return time.Time{}
	}
	match = strings.Join(strings.Fields(match), " ")
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, match); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseLocation extracts a "CITY, ST" place name from the text.
func parseLocation(text string) string {
	return locationPattern.FindString(text)
}

// scoreEvent computes the field-completeness confidence for an event:
// 0.3 base, 0.3 for a parsed timestamp, 0.2 for a recognized status, 0.1 for
// a location, 0.1 when the event came from a structured source (JSON or a
// matched event container), capped at 1.0.
func scoreEvent(e domain.ShipmentEvent, structured bool) float64 {
	score := 0.3
	if !e.Timestamp.IsZero() {
		score += 0.3
	}
	if e.Status != domain.StatusUnknown {
		score += 0.2
	}
	if e.Location != "" {
		score += 0.1
	}
	if structured {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// Extractor turns raw carrier responses into normalized shipment events.
// It is shared by every HTTP strategy; each strategy feeds it whatever body
// it managed to fetch.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor creates an Extractor.
func NewExtractor() *Extractor {
	return &Extractor{logger: logger.Get()}
}

// FromHTML parses a carrier tracking page into events. It first walks the
// carrier's known event containers, then falls back to scanning the page text
// for status keywords when no container matched.
func (x *Extractor) FromHTML(carrier string, body []byte) []domain.ShipmentEvent {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		x.logger.Debug("HTML parse failed", zap.String("carrier", carrier), zap.Error(err))
		return nil
	}

	selector := carrierEventSelectors[carrier]
	if selector == "" {
		selector = genericEventSelector
	} else {
		selector += ", " + genericEventSelector
	}

	var events []domain.ShipmentEvent
	seen := make(map[string]bool)
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.Join(strings.Fields(sel.Text()), " ")
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		if ev, ok := x.eventFromText(text, true); ok {
			events = append(events, ev)
		}
	})

	if len(events) > 0 {
		return events
	}

	// No recognizable containers. Scan the page text once; only a recognized
	// status keyword makes an unstructured match worth reporting.
	text := strings.Join(strings.Fields(doc.Text()), " ")
	if ev, ok := x.eventFromText(text, false); ok && ev.Status != domain.StatusUnknown {
		return []domain.ShipmentEvent{ev}
	}
	return nil
}

// eventFromText builds one event from a text fragment. Returns false when the
// fragment has neither a recognized status nor a timestamp.
func (x *Extractor) eventFromText(text string, structured bool) (domain.ShipmentEvent, bool) {
	ev := domain.ShipmentEvent{
		Status:      classifyStatus(text),
		Description: truncate(text, 200),
		Timestamp:   parseEventTime(text),
		Location:    parseLocation(text),
	}
	if ev.Status == domain.StatusUnknown && ev.Timestamp.IsZero() {
		return domain.ShipmentEvent{}, false
	}
	ev.Confidence = scoreEvent(ev, structured)
	return ev, true
}

// jsonEventKeys are the field names carrier APIs use for event rows.
var (
	jsonDescKeys     = []string{"description", "status", "event", "scanEventDesc", "statusDescription", "movement"}
	jsonDateKeys     = []string{"date", "timestamp", "eventDate", "dateTime", "time", "scanDate"}
	jsonLocationKeys = []string{"location", "city", "terminal", "station"}
)

// FromJSON walks an arbitrary carrier JSON payload and collects every object
// that looks like a tracking event (a description field, optionally a date
// and location). Carrier APIs disagree wildly on shape, so this is a
// tolerant traversal rather than a schema decode.
func (x *Extractor) FromJSON(body []byte) []domain.ShipmentEvent {
	var root any
	if err := json.Unmarshal(body, &root); err != nil {
		x.logger.Debug("JSON parse failed", zap.Error(err))
		return nil
	}

	var events []domain.ShipmentEvent
	walkJSON(root, func(obj map[string]any) {
		desc, ok := firstString(obj, jsonDescKeys)
		if !ok {
			return
		}
		ev := domain.ShipmentEvent{
			Status:      classifyStatus(desc),
			Description: truncate(desc, 200),
		}
		if raw, ok := firstString(obj, jsonDateKeys); ok {
			ev.Timestamp = parseEventTime(raw)
		}
		if loc, ok := firstString(obj, jsonLocationKeys); ok {
			ev.Location = loc
		}
		ev.Confidence = scoreEvent(ev, true)
		events = append(events, ev)
	})
	return events
}

// walkJSON visits every object in a decoded JSON tree.
func walkJSON(node any, visit func(map[string]any)) {
	switch v := node.(type) {
	case map[string]any:
		visit(v)
		for _, child := range v {
			walkJSON(child, visit)
		}
	case []any:
		for _, child := range v {
			walkJSON(child, visit)
		}
	}
}

// firstString returns the first non-empty string value among the candidate
// keys, matching case-insensitively.
func firstString(obj map[string]any, keys []string) (string, bool) {
	for _, key := range keys {
		for k, v := range obj {
			if !strings.EqualFold(k, key) {
				continue
			}
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s), true
			}
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
