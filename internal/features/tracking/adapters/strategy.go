package adapter

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/augmentac/ff2api-external-integration-tool/internal/features/tracking/domain"
)

// maxBodyBytes bounds how much of a carrier response gets buffered.
const maxBodyBytes = 2 << 20

// classifyErr maps a request error onto the failure taxonomy: a blown
// deadline is a timeout, everything else on the wire is a transport failure.
func classifyErr(ctx context.Context, err error) (domain.ErrorKind, string) {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.ErrKindTimeout, "attempt deadline exceeded"
	}
	return domain.ErrKindTransport, err.Error()
}

// readBody drains up to maxBodyBytes of the response and closes it.
func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
}

// looksLikeJSON sniffs whether a body should go through the JSON extractor.
func looksLikeJSON(contentType string, body []byte) bool {
	if strings.Contains(contentType, "json") {
		return true
	}
	trimmed := strings.TrimSpace(string(body))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// extractBest parses a fetched body and picks the most authoritative event.
// Returns nil when nothing usable was extracted.
func extractBest(x *Extractor, carrier, contentType string, body []byte) *domain.ShipmentEvent {
	var events []domain.ShipmentEvent
	if looksLikeJSON(contentType, body) {
		events = x.FromJSON(body)
	} else {
		events = x.FromHTML(carrier, body)
	}
	return domain.SelectBest(events)
}
