package domain

import "time"

// ShipmentStatus represents the coarse state of a shipment derived from a
// carrier's tracking surface.
type ShipmentStatus string

const (
	// StatusDelivered indicates the shipment reached its consignee.
	StatusDelivered ShipmentStatus = "DELIVERED"
	// StatusOutForDelivery indicates the shipment is on a delivery vehicle.
	StatusOutForDelivery ShipmentStatus = "OUT_FOR_DELIVERY"
	// StatusInTransit indicates the shipment is moving between terminals.
	StatusInTransit ShipmentStatus = "IN_TRANSIT"
	// StatusPickedUp indicates the carrier has taken possession of the freight.
	StatusPickedUp ShipmentStatus = "PICKED_UP"
	// StatusUnknown indicates the extracted text did not match a known state.
	StatusUnknown ShipmentStatus = "UNKNOWN"
)

// statusPriority ranks statuses for event selection. Higher wins.
var statusPriority = map[ShipmentStatus]int{
	StatusDelivered:      100,
	StatusOutForDelivery: 80,
	StatusInTransit:      50,
	StatusPickedUp:       30,
	StatusUnknown:        0,
}

// Priority returns the selection rank of the status. Unknown statuses rank lowest.
func (s ShipmentStatus) Priority() int {
	return statusPriority[s]
}

// ShipmentEvent is a single normalized tracking event extracted from a carrier.
// Events are constructed by a strategy immediately after parsing a response and
// are immutable afterward; they live only for the duration of one request.
type ShipmentEvent struct {
	// Status is the coarse shipment state this event maps to.
	Status ShipmentStatus `json:"status"`
	// Description is the free-text event label from the source.
	Description string `json:"description"`
	// Timestamp is when the event occurred. Zero when the source time was unparseable.
	Timestamp time.Time `json:"timestamp,omitempty"`
	// Location is the free-text place name, empty when absent.
	Location string `json:"location,omitempty"`
	// Confidence scores how certain the extraction is, in [0,1].
	Confidence float64 `json:"confidence"`
}

// Trustworthy reports whether the event clears the given confidence threshold
// with a recognized status. Unknown-status events never qualify, regardless of
// confidence.
func (e ShipmentEvent) Trustworthy(threshold float64) bool {
	return e.Status != StatusUnknown && e.Confidence >= threshold
}
