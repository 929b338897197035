package service

import (
	"context"
	"sort"
	"strconv"
	"strings"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	extensiondomain "github.com/cdrmed/cdrmed/internal/extension/domain"
	"github.com/cdrmed/cdrmed/internal/numbering"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo extensiondomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo extensiondomain.Repository
}

func NewService(p ServiceParam) extensiondomain.Service {
	return &Service{
		log:  p.Log.Named("extension.service"),
		repo: p.Repo,
	}
}

func (s *Service) Assign(
	ctx context.Context,
	event *calldomain.CallEvent,
	loc *calldomain.LocationContext,
	ignoredAuthCode func(string) bool,
) (extensiondomain.Assignment, error) {
	none := extensiondomain.Assignment{Cause: calldomain.AssignmentNone}
	if loc == nil {
		return none, nil
	}

	// 1. Authorization code, unless configured as ignorable.
	code := strings.TrimSpace(event.AuthCode)
	if code != "" && (ignoredAuthCode == nil || !ignoredAuthCode(code)) {
		match, err := s.repo.FindAuthCode(ctx, loc.SiteID, code)
		if err != nil {
			return none, err
		}
		if match != nil {
			return extensiondomain.Assignment{
				EmployeeID: match.EmployeeID,
				Cause:      calldomain.AssignmentAuthCode,
			}, nil
		}
	}

	// 2. The event's own extension: calling leg for outgoing calls,
	// called leg for incoming ones.
	own := event.Calling
	if event.Direction == calldomain.DirectionIncoming {
		own = event.Called
	}
	if own != "" {
		match, err := s.repo.FindExtension(ctx, loc.SiteID, own)
		if err != nil {
			return none, err
		}
		if match != nil {
			return extensiondomain.Assignment{
				EmployeeID: match.EmployeeID,
				Cause:      calldomain.AssignmentExtension,
			}, nil
		}
	}

	// 3. Transferred call: the redirecting party owns it.
	if event.RedirectingNumber != "" && event.TransferCause != "" {
		match, err := s.repo.FindExtension(ctx, loc.SiteID, event.RedirectingNumber)
		if err != nil {
			return none, err
		}
		if match != nil {
			return extensiondomain.Assignment{
				EmployeeID: match.EmployeeID,
				Cause:      calldomain.AssignmentTransfer,
			}, nil
		}
	}

	// 4. Numeric range fallback.
	if numbering.IsAllDigits(own) {
		value, err := strconv.ParseInt(own, 10, 64)
		if err == nil {
			ranges, err := s.repo.ListRangesContaining(ctx, loc.SiteID, value)
			if err != nil {
				return none, err
			}
			if best := narrowestRange(ranges); best != nil {
				return extensiondomain.Assignment{
					EmployeeID: best.EmployeeID,
					Cause:      calldomain.AssignmentExtensionRange,
				}, nil
			}
		}
	}

	return none, nil
}

func (s *Service) InAnyRange(ctx context.Context, number string) (bool, error) {
	if !numbering.IsAllDigits(number) {
		return false, nil
	}
	value, err := strconv.ParseInt(number, 10, 64)
	if err != nil {
		return false, nil
	}
	return s.repo.AnyRangeContaining(ctx, value)
}

// narrowestRange picks the most specific containing range: smallest width,
// then most recently created.
func narrowestRange(ranges []extensiondomain.ExtensionRange) *extensiondomain.ExtensionRange {
	if len(ranges) == 0 {
		return nil
	}
	sort.SliceStable(ranges, func(i, j int) bool {
		if ranges[i].Width() != ranges[j].Width() {
			return ranges[i].Width() < ranges[j].Width()
		}
		return ranges[i].CreatedAt.After(ranges[j].CreatedAt)
	})
	return &ranges[0]
}
