package service

import (
	"context"
	"sort"
	"strings"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	prefixdomain "github.com/cdrmed/cdrmed/internal/prefix/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo prefixdomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo prefixdomain.Repository
}

func NewService(p ServiceParam) prefixdomain.Service {
	return &Service{
		log:  p.Log.Named("prefix.service"),
		repo: p.Repo,
	}
}

func (s *Service) FindCandidates(
	ctx context.Context,
	number string,
	loc *calldomain.LocationContext,
	forIncoming bool,
	hintedTypeID int64,
) ([]prefixdomain.Match, error) {
	if loc == nil {
		return nil, prefixdomain.ErrMissingLocation
	}

	rows, err := s.repo.ListByCountry(ctx, loc.OriginCountryID)
	if err != nil {
		return nil, err
	}

	matches := make([]prefixdomain.Match, 0, 4)
	for _, row := range rows {
		if row.Code == "" || !strings.HasPrefix(number, row.Code) {
			continue
		}
		if hintedTypeID != calldomain.TypeUnknown && row.TelephonyTypeID != hintedTypeID {
			continue
		}
		// Internal, special-service and fixed-cellular prefixes never
		// identify an external country or region.
		if !calldomain.IsExternalDestinationType(row.TelephonyTypeID) {
			continue
		}
		if row.OriginIndicatorID != 0 && row.OriginIndicatorID != loc.IndicatorID {
			continue
		}
		matches = append(matches, toMatch(row))
	}

	// Longest prefix first; type then operator ids keep ties deterministic.
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if len(a.Code) != len(b.Code) {
			return len(a.Code) > len(b.Code)
		}
		if a.TelephonyTypeID != b.TelephonyTypeID {
			return a.TelephonyTypeID < b.TelephonyTypeID
		}
		return a.OperatorID < b.OperatorID
	})

	// The synthetic no-prefix entry stands for the local default plan: a
	// number with no carrier code dials inside the site's own region.
	if !forIncoming && (hintedTypeID == calldomain.TypeUnknown || hintedTypeID == calldomain.TypeLocal) {
		matches = append(matches, prefixdomain.Match{
			Code:            "",
			TelephonyTypeID: calldomain.TypeLocal,
			OperatorID:      0,
		})
	}

	return matches, nil
}

func toMatch(row prefixdomain.Prefix) prefixdomain.Match {
	return prefixdomain.Match{
		PrefixID:          row.ID,
		Code:              row.Code,
		TelephonyTypeID:   row.TelephonyTypeID,
		OperatorID:        row.OperatorID,
		MinSubscriberLen:  row.MinSubscriberLen,
		MaxSubscriberLen:  row.MaxSubscriberLen,
		BandEligible:      row.BandEligible,
		OriginIndicatorID: row.OriginIndicatorID,
	}
}
