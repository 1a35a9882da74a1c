package domain

import "sort"

// SelectBest picks the single most authoritative event from the candidates,
// whether they came from several strategies or several scraped rows on one
// page. Primary key is status priority (Delivered > OutForDelivery >
// InTransit > PickedUp > Unknown), then timestamp recency, then confidence.
// The sort is stable, so records equal on all keys keep their original
// relative order and the selection is deterministic. Empty input returns nil.
func SelectBest(events []ShipmentEvent) *ShipmentEvent {
	if len(events) == 0 {
		return nil
	}

	sorted := make([]ShipmentEvent, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Status.Priority() != b.Status.Priority() {
			return a.Status.Priority() > b.Status.Priority()
		}
		if !a.Timestamp.Equal(b.Timestamp) {
			return a.Timestamp.After(b.Timestamp)
		}
		return a.Confidence > b.Confidence
	})

	best := sorted[0]
	return &best
}
