// Package domain defines the classification entry point.
package domain

import (
	"context"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
)

type Service interface {
	// Rate classifies and prices one event. Every call yields exactly one
	// disposition; classification errors surface as quarantine
	// dispositions, never as silent drops.
	Rate(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) calldomain.Disposition
}
