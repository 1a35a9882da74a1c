package ports

import (
	"context"

	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
)

// Strategy is one self-contained extraction technique attempted against a
// carrier's public tracking surface. Implementations classify their own
// failures (timeout, transport, blocked) inside the returned StrategyResult
// and must check ctx between I/O steps so in-flight attempts can be cancelled
// cooperatively.
type Strategy interface {
	// Name identifies the strategy in outcomes and logs.
	Name() string
	// Attempt runs the extraction for one PRO number against one carrier.
	Attempt(ctx context.Context, carrier domain.CarrierConfig, proNumber string) domain.StrategyResult
}

// OutcomeCache stores finished tracking outcomes keyed by carrier and PRO
// number so repeated lookups skip the scrape entirely.
type OutcomeCache interface {
	// Get returns the cached outcome, or nil when none is stored.
	Get(ctx context.Context, carrier, proNumber string) (*domain.TrackingOutcome, error)
	// Save stores the outcome for the configured TTL.
	Save(ctx context.Context, outcome *domain.TrackingOutcome) error
}
