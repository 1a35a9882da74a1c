package domain

import (
	"errors"
	"time"
)

var (
	// ErrUnknownCarrier is returned when the requested carrier has no registry entry.
	ErrUnknownCarrier = errors.New("unknown carrier")
	// ErrInvalidProNumber is returned when the PRO number is empty or malformed.
	ErrInvalidProNumber = errors.New("invalid pro number")
)

// ErrorKind classifies why a single extraction attempt failed.
type ErrorKind string

const (
	// ErrKindTimeout means the attempt exceeded its time budget.
	ErrKindTimeout ErrorKind = "timeout"
	// ErrKindTransport means a network, DNS, or connection failure.
	ErrKindTransport ErrorKind = "transport"
	// ErrKindBlocked means the carrier served an explicit bot-defense signal
	// (challenge page, CAPTCHA, 403).
	ErrKindBlocked ErrorKind = "blocked"
	// ErrKindNoData means the response parsed cleanly but held no usable event.
	ErrKindNoData ErrorKind = "no_data"
)

// StrategyResult is the outcome of one extraction attempt. Results are
// collected for the duration of one tracking request, then discarded.
type StrategyResult struct {
	// Strategy identifies which extraction method ran.
	Strategy string `json:"strategy"`
	// Event is the extracted event on success, nil on failure.
	Event *ShipmentEvent `json:"event,omitempty"`
	// ErrKind classifies the failure when Event is nil.
	ErrKind ErrorKind `json:"error_kind,omitempty"`
	// Detail carries the failure message for diagnostics.
	Detail string `json:"detail,omitempty"`
	// Duration is the wall-clock time the attempt took.
	Duration time.Duration `json:"duration"`
}

// OK reports whether the attempt produced an event.
func (r StrategyResult) OK() bool {
	return r.Event != nil
}

// Failure builds a failed StrategyResult for the named strategy.
func Failure(strategy string, kind ErrorKind, detail string, d time.Duration) StrategyResult {
	return StrategyResult{Strategy: strategy, ErrKind: kind, Detail: detail, Duration: d}
}

// TrackingOutcome is the final result of a tracking request. Scraping failures
// are represented here as data, never as an error to the caller.
type TrackingOutcome struct {
	// ProNumber echoes the requested PRO number.
	ProNumber string `json:"pro_number"`
	// Carrier echoes the normalized carrier identifier.
	Carrier string `json:"carrier"`
	// Success is true when a trustworthy event was extracted.
	Success bool `json:"success"`
	// Event is the best extracted event when Success is true.
	Event *ShipmentEvent `json:"event,omitempty"`
	// MethodsAttempted lists strategy names in the order they ran. Non-empty
	// whenever the orchestrator actually ran.
	MethodsAttempted []string `json:"methods_attempted"`
	// FailureExplanation describes what went wrong when Success is false.
	FailureExplanation string `json:"failure_explanation,omitempty"`
	// NextSteps holds manual-tracking guidance when Success is false.
	NextSteps string `json:"next_steps,omitempty"`
}
