// Package domain defines the mediation entrypoint contract.
package domain

import (
	"context"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
)

// Service runs one call event through rating and persists the outcome.
type Service interface {
	// Process rates the event and writes either a call record or a
	// quarantine record. The returned disposition mirrors what was stored.
	Process(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) (calldomain.Disposition, error)

	// ProcessBatch rates a slice of events against one site context,
	// continuing past per-event persistence failures.
	ProcessBatch(ctx context.Context, events []*calldomain.CallEvent, loc *calldomain.LocationContext) (BatchResult, error)
}

// BatchResult summarizes one ProcessBatch run.
type BatchResult struct {
	Accepted    int
	Quarantined int
	Failed      int
}
