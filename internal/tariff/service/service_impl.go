package service

import (
	"context"
	"math"

	banddomain "github.com/cdrmed/cdrmed/internal/band/domain"
	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	"github.com/cdrmed/cdrmed/internal/config"
	tariffdomain "github.com/cdrmed/cdrmed/internal/tariff/domain"
	trunkdomain "github.com/cdrmed/cdrmed/internal/trunkrule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	repo   tariffdomain.Repository
	bands  banddomain.Service
	trunks trunkdomain.Service
	params *config.RatingParamsHolder
}

type ServiceParam struct {
	fx.In

	Log    *zap.Logger
	Repo   tariffdomain.Repository
	Bands  banddomain.Service
	Trunks trunkdomain.Service
	Params *config.RatingParamsHolder
}

func NewService(p ServiceParam) tariffdomain.Service {
	return &Service{
		log:    p.Log.Named("tariff.service"),
		repo:   p.Repo,
		bands:  p.Bands,
		trunks: p.Trunks,
		params: p.Params,
	}
}

// Price applies the four pricing layers in strict order. Each layer
// replaces the previous value outright; layers never merge.
func (s *Service) Price(ctx context.Context, req tariffdomain.PriceRequest) error {
	ev := req.Event
	loc := req.Location

	var value tariffdomain.Value
	unitSeconds := 60
	originIndicator := loc.IndicatorID

	// 1. Base rate for the resolved type and operator.
	base, err := s.repo.FindBaseRate(ctx, loc.OriginCountryID, ev.TelephonyTypeID, ev.OperatorID)
	if err != nil {
		return err
	}
	if base != nil {
		value = tariffdomain.Value{Rate: base.Rate, VATIncluded: base.VATIncluded, VATPercent: base.VATPercent}
	}

	// 2. Indicator-band override.
	if req.Prefix != nil && req.Prefix.BandEligible && req.Destination != nil {
		band, err := s.bands.FindOverride(ctx, req.Prefix.PrefixID, req.Destination.IndicatorID, originIndicator)
		if err != nil {
			return err
		}
		if band != nil {
			value = tariffdomain.Value{Rate: band.Rate, VATIncluded: band.VATIncluded, VATPercent: band.VATPercent}
			ev.BandID = band.ID
			ev.BandName = band.Name
		}
	}

	// 3. Trunk override. May also redirect type, operator, billing unit
	// and origin indicator for the remaining lookups.
	trunk := ev.DestinationTrunk
	if ev.Direction == calldomain.DirectionIncoming {
		trunk = ev.OriginTrunk
	}
	if trunk != "" {
		indicatorID := int64(0)
		if req.Destination != nil {
			indicatorID = req.Destination.IndicatorID
		}
		override, err := s.trunks.FindRate(ctx, trunk, ev.TelephonyTypeID, ev.OperatorID, indicatorID)
		if err != nil {
			return err
		}
		if override != nil {
			value = tariffdomain.Value{Rate: override.Rate, VATIncluded: override.VATIncluded, VATPercent: override.VATPercent}
			if override.UnitSeconds > 0 {
				unitSeconds = override.UnitSeconds
			}
			if override.NewTelephonyTypeID != 0 {
				ev.TelephonyTypeID = override.NewTelephonyTypeID
			}
			if override.NewOperatorID != 0 {
				ev.OperatorID = override.NewOperatorID
			}
			if override.NewOriginIndicatorID != 0 {
				originIndicator = override.NewOriginIndicatorID
			}
		}
	}

	// 4. Special rate: fixed replaces the per-minute price, percent
	// discounts it.
	specials, err := s.repo.ListSpecialRates(ctx, ev.TelephonyTypeID, ev.OperatorID, originIndicator)
	if err != nil {
		return err
	}
	for _, special := range specials {
		if !special.AppliesAt(ev.OriginatedAt, ev.DurationSeconds) {
			continue
		}
		switch special.Kind {
		case tariffdomain.ValueFixed:
			value.Rate = special.Value
		case tariffdomain.ValuePercent:
			value.Rate = value.Rate * (1 - special.Value/100)
		}
		break
	}

	s.finalize(ev, value, unitSeconds, false)
	return nil
}

func (s *Service) PriceFlat(ctx context.Context, event *calldomain.CallEvent, value tariffdomain.Value) error {
	s.finalize(event, value, 60, true)
	return nil
}

// finalize writes the billed totals. Calls with no tariffable consumption
// are reclassified as no-consumption with zero amounts unless the event
// already carries the error type.
func (s *Service) finalize(ev *calldomain.CallEvent, value tariffdomain.Value, unitSeconds int, flat bool) {
	params := s.params.Get()

	if ev.DurationSeconds < maxInt(params.MinTariffableSeconds, 1) {
		if ev.TelephonyTypeID != calldomain.TypeErrors {
			ev.TelephonyTypeID = calldomain.TypeNoConsumption
		}
		ev.UnitSeconds = unitSeconds
		ev.PricePerUnit = 0
		ev.VATIncluded = value.VATIncluded
		ev.VATPercent = value.VATPercent
		ev.BilledUnits = 0
		ev.BilledAmount = 0
		return
	}

	units := 1
	perUnit := value.Rate
	if !flat {
		if unitSeconds <= 0 {
			unitSeconds = 60
		}
		units = (ev.DurationSeconds + unitSeconds - 1) / unitSeconds
		if unitSeconds != 60 {
			// Configured rates are per minute; rescale to the billing unit.
			perUnit = value.Rate * float64(unitSeconds) / 60
		}
	}

	total := float64(units) * perUnit
	if !value.VATIncluded && value.VATPercent > 0 {
		total *= 1 + value.VATPercent/100
	}

	ev.UnitSeconds = unitSeconds
	ev.PricePerUnit = round4(perUnit)
	ev.VATIncluded = value.VATIncluded
	ev.VATPercent = value.VATPercent
	ev.BilledUnits = units
	ev.BilledAmount = round2(total)
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
