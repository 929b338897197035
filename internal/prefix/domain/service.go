package domain

import (
	"context"
	"errors"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
)

type Service interface {
	// FindCandidates returns every active prefix heading number, longest
	// first, plus a synthetic no-prefix local entry when applicable.
	FindCandidates(ctx context.Context, number string, loc *calldomain.LocationContext, forIncoming bool, hintedTypeID int64) ([]Match, error)
}

type Repository interface {
	ListByCountry(ctx context.Context, originCountryID int64) ([]Prefix, error)
}

var (
	ErrMissingLocation = errors.New("missing_location_context")
)
