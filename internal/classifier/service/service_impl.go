package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	classifierdomain "github.com/cdrmed/cdrmed/internal/classifier/domain"
	"github.com/cdrmed/cdrmed/internal/config"
	extensiondomain "github.com/cdrmed/cdrmed/internal/extension/domain"
	indicatordomain "github.com/cdrmed/cdrmed/internal/indicator/domain"
	"github.com/cdrmed/cdrmed/internal/numbering"
	pbxruledomain "github.com/cdrmed/cdrmed/internal/pbxrule/domain"
	prefixdomain "github.com/cdrmed/cdrmed/internal/prefix/domain"
	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	ssdomain "github.com/cdrmed/cdrmed/internal/specialservice/domain"
	tariffdomain "github.com/cdrmed/cdrmed/internal/tariff/domain"
	trunkdomain "github.com/cdrmed/cdrmed/internal/trunkrule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log *zap.Logger

	prefixes   prefixdomain.Service
	indicators indicatordomain.Service
	pbxRules   pbxruledomain.Service
	extensions extensiondomain.Service
	specials   ssdomain.Service
	trunks     trunkdomain.Service
	tariffs    tariffdomain.Service
	gate       quarantinedomain.Service
	params     *config.RatingParamsHolder
}

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	Prefixes   prefixdomain.Service
	Indicators indicatordomain.Service
	PBXRules   pbxruledomain.Service
	Extensions extensiondomain.Service
	Specials   ssdomain.Service
	Trunks     trunkdomain.Service
	Tariffs    tariffdomain.Service
	Gate       quarantinedomain.Service
	Params     *config.RatingParamsHolder
}

func NewService(p ServiceParam) classifierdomain.Service {
	return &Service{
		log:        p.Log.Named("classifier.service"),
		prefixes:   p.Prefixes,
		indicators: p.Indicators,
		pbxRules:   p.PBXRules,
		extensions: p.Extensions,
		specials:   p.Specials,
		trunks:     p.Trunks,
		tariffs:    p.Tariffs,
		gate:       p.Gate,
		params:     p.Params,
	}
}

// stepError ties a collaborator failure to the pipeline step it happened
// in, so the quarantine entry names where rating stopped.
type stepError struct {
	step string
	err  error
}

func (e *stepError) Error() string { return fmt.Sprintf("%s: %v", e.step, e.err) }

func (e *stepError) Unwrap() error { return e.err }

func failAt(step string, err error) error { return &stepError{step: step, err: err} }

func (s *Service) Rate(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) calldomain.Disposition {
	event.SnapshotOriginalCalled()

	if messages := s.gate.Validate(event); len(messages) > 0 {
		return calldomain.Quarantined(event, quarantinedomain.StepValidation, strings.Join(messages, "; "))
	}

	if err := s.classifyAndPrice(ctx, event, loc); err != nil {
		step := quarantinedomain.StepClassification
		var se *stepError
		if errors.As(err, &se) {
			step = se.step
		}
		return calldomain.Quarantined(event, step, err.Error())
	}

	if err := s.assignEmployee(ctx, event, loc); err != nil {
		return calldomain.Quarantined(event, quarantinedomain.StepAssignment, err.Error())
	}

	return calldomain.Accepted(event)
}

func (s *Service) classifyAndPrice(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) error {
	if !event.Internal {
		if err := s.detectInternal(ctx, event, loc); err != nil {
			return failAt(quarantinedomain.StepClassification, err)
		}
	}

	// An internal call recorded as incoming is the other party's outgoing
	// leg: swap and rate it as outgoing.
	if event.Internal && event.Direction == calldomain.DirectionIncoming {
		event.SwapParties()
		event.Direction = calldomain.DirectionOutgoing
	}

	if event.Direction == calldomain.DirectionIncoming {
		return s.rateIncoming(ctx, event, loc)
	}
	return s.rateOutgoing(ctx, event, loc)
}

// detectInternal applies the legacy internality heuristic: a plausible
// extension calling a destination that is itself a single digit, another
// plausible extension, or a number inside a configured extension range.
func (s *Service) detectInternal(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) error {
	params := s.params.Get()

	if !numbering.IsPlausibleExtension(event.Calling, params.MinExtensionLen, params.MaxExtensionLen) {
		return nil
	}

	cleaned, err := s.pbxRules.Apply(ctx, event.Called, loc, pbxruledomain.RuleInternal)
	if err != nil {
		return err
	}

	switch {
	case len(cleaned) == 1 && numbering.IsAllDigits(cleaned):
		event.Internal = true
	case numbering.IsPlausibleExtension(cleaned, params.MinExtensionLen, params.MaxExtensionLen):
		event.Internal = true
	case numbering.IsAllDigits(cleaned) && (cleaned == "0" || !strings.HasPrefix(cleaned, "0")):
		inRange, err := s.extensions.InAnyRange(ctx, cleaned)
		if err != nil {
			return err
		}
		event.Internal = inRange
	}

	if event.Internal {
		event.EffectiveDestination = cleaned
	}
	return nil
}

// rateOutgoing evaluates the destination resolvers in fixed order; the
// first one that commits a price wins.
func (s *Service) rateOutgoing(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) error {
	rewritten, err := s.pbxRules.Apply(ctx, event.Called, loc, pbxruledomain.RuleOutgoing)
	if err != nil {
		return failAt(quarantinedomain.StepClassification, err)
	}
	cleaned := numbering.Clean(rewritten, loc.ExitPrefixes, true)
	event.EffectiveDestination = cleaned

	strategies := []func(context.Context, *calldomain.CallEvent, *calldomain.LocationContext, string) (bool, error){
		s.priceSpecialService,
		s.priceInternal,
		s.priceExternal,
	}
	for _, strategy := range strategies {
		handled, err := strategy(ctx, event, loc, cleaned)
		if err != nil {
			return err
		}
		if handled {
			return nil
		}
	}

	// Unresolvable destination: keep the record with the error type and a
	// zeroed price instead of losing the call.
	event.TelephonyTypeID = calldomain.TypeErrors
	event.OperatorID = 0
	if err := s.tariffs.PriceFlat(ctx, event, tariffdomain.Value{}); err != nil {
		return failAt(quarantinedomain.StepPricing, err)
	}
	return nil
}

func (s *Service) priceSpecialService(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext, number string) (bool, error) {
	match, err := s.specials.Resolve(ctx, number, loc.OriginCountryID, loc.IndicatorID)
	if err != nil {
		return false, failAt(quarantinedomain.StepClassification, err)
	}
	if match == nil {
		return false, nil
	}

	event.TelephonyTypeID = calldomain.TypeSpecial
	event.IndicatorID = loc.IndicatorID
	event.DestinationName = match.Description
	value := tariffdomain.Value{Rate: match.Rate, VATIncluded: match.VATIncluded, VATPercent: match.VATPercent}
	if err := s.tariffs.PriceFlat(ctx, event, value); err != nil {
		return false, failAt(quarantinedomain.StepPricing, err)
	}
	return true, nil
}

func (s *Service) priceInternal(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext, _ string) (bool, error) {
	if !event.Internal {
		return false, nil
	}

	event.TelephonyTypeID = calldomain.TypeInternal
	event.IndicatorID = loc.IndicatorID
	if err := s.tariffs.Price(ctx, tariffdomain.PriceRequest{Event: event, Location: loc}); err != nil {
		return false, failAt(quarantinedomain.StepPricing, err)
	}
	return true, nil
}

func (s *Service) priceExternal(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext, number string) (bool, error) {
	bestPrefix, best, err := s.resolveNumber(ctx, number, loc, false, 0)
	if err != nil {
		return false, failAt(quarantinedomain.StepClassification, err)
	}
	if best == nil {
		return false, nil
	}

	event.TelephonyTypeID = bestPrefix.TelephonyTypeID
	event.OperatorID = bestPrefix.OperatorID
	event.IndicatorID = best.IndicatorID
	event.DestinationName = best.Description
	event.EffectiveDestination = best.MatchedNumber

	err = s.tariffs.Price(ctx, tariffdomain.PriceRequest{
		Event:       event,
		Location:    loc,
		Prefix:      bestPrefix,
		Destination: best,
	})
	if err != nil {
		return false, failAt(quarantinedomain.StepPricing, err)
	}
	return true, nil
}

// rateIncoming resolves the external caller's origin and classifies the
// call as local, local-extended or by the matched prefix type.
func (s *Service) rateIncoming(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) error {
	caller, err := s.pbxRules.Apply(ctx, event.Calling, loc, pbxruledomain.RuleIncoming)
	if err != nil {
		return failAt(quarantinedomain.StepClassification, err)
	}

	caller, hintedType, err := s.trunks.ApplyTransforms(ctx, event.OriginTrunk, caller)
	if err != nil {
		return failAt(quarantinedomain.StepClassification, err)
	}
	cleaned := numbering.Clean(caller, nil, true)

	bestPrefix, best, err := s.resolveNumber(ctx, cleaned, loc, true, hintedType)
	if err != nil {
		return failAt(quarantinedomain.StepClassification, err)
	}

	switch {
	case best == nil || best.IndicatorID == loc.IndicatorID:
		event.TelephonyTypeID = calldomain.TypeLocal
		event.IndicatorID = loc.IndicatorID
	default:
		extended, err := s.indicators.IsLocalExtended(ctx, loc.IndicatorID, best.IndicatorID)
		if err != nil {
			return failAt(quarantinedomain.StepClassification, err)
		}
		event.IndicatorID = best.IndicatorID
		event.DestinationName = best.Description
		if extended {
			event.TelephonyTypeID = calldomain.TypeLocalExtended
		} else {
			event.TelephonyTypeID = bestPrefix.TelephonyTypeID
		}
	}
	if bestPrefix != nil {
		event.OperatorID = bestPrefix.OperatorID
	}

	err = s.tariffs.Price(ctx, tariffdomain.PriceRequest{
		Event:       event,
		Location:    loc,
		Prefix:      bestPrefix,
		Destination: best,
	})
	if err != nil {
		return failAt(quarantinedomain.StepPricing, err)
	}
	return nil
}

// resolveNumber scans prefix candidates for the best numbering-plan match.
// The first exact match ends the scan; approximate matches only compete
// with each other.
func (s *Service) resolveNumber(
	ctx context.Context,
	number string,
	loc *calldomain.LocationContext,
	forIncoming bool,
	hintedType int64,
) (*prefixdomain.Match, *indicatordomain.Match, error) {
	if number == "" {
		return nil, nil, nil
	}

	candidates, err := s.prefixes.FindCandidates(ctx, number, loc, forIncoming, hintedType)
	if err != nil {
		return nil, nil, err
	}

	var bestPrefix *prefixdomain.Match
	var best *indicatordomain.Match
	for i := range candidates {
		candidate := candidates[i]
		match, err := s.indicators.ResolveDestination(ctx, indicatordomain.ResolveRequest{
			Number:           number,
			PrefixCode:       candidate.Code,
			TelephonyTypeID:  candidate.TelephonyTypeID,
			MinSubscriberLen: candidate.MinSubscriberLen,
			MaxSubscriberLen: candidate.MaxSubscriberLen,
			OriginCountryID:  loc.OriginCountryID,
		})
		if err != nil {
			return nil, nil, err
		}
		if match == nil {
			continue
		}
		if !match.Approximate {
			return &candidate, match, nil
		}
		if match.BetterThan(best) {
			best = match
			bestPrefix = &candidate
		}
	}
	return bestPrefix, best, nil
}

func (s *Service) assignEmployee(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) error {
	assignment, err := s.extensions.Assign(ctx, event, loc, s.params.Get().IsIgnoredAuthCode)
	if err != nil {
		return err
	}
	event.EmployeeID = assignment.EmployeeID
	event.AssignmentCause = assignment.Cause

	// A conference leg attributed through its redirecting party records
	// the conference cause, not the transfer one.
	if event.ConferenceLeg && assignment.Cause == calldomain.AssignmentTransfer {
		event.AssignmentCause = calldomain.AssignmentConference
	}
	return nil
}
