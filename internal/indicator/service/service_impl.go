package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	indicatordomain "github.com/cdrmed/cdrmed/internal/indicator/domain"
	"github.com/cdrmed/cdrmed/internal/numbering"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo indicatordomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo indicatordomain.Repository
}

func NewService(p ServiceParam) indicatordomain.Service {
	return &Service{
		log:  p.Log.Named("indicator.service"),
		repo: p.Repo,
	}
}

// ResolveDestination splits the post-prefix digits into candidate NDCs,
// longest first, and checks each against the registered subscriber series.
// The first exact series hit wins and stops the scan. A registered NDC with
// no matching series is kept as an approximate fallback only while no exact
// match exists.
func (s *Service) ResolveDestination(ctx context.Context, req indicatordomain.ResolveRequest) (*indicatordomain.Match, error) {
	local := strings.TrimPrefix(req.Number, req.PrefixCode)
	if local == "" || !numbering.IsAllDigits(local) {
		return nil, nil
	}

	minLen, maxLen, err := s.repo.NDCLenRange(ctx, req.OriginCountryID, req.TelephonyTypeID)
	if err != nil {
		if errors.Is(err, indicatordomain.ErrNoNDCLengths) {
			// Types without registered NDCs (e.g. local) match series
			// registered under NDC 0 against the whole number.
			minLen, maxLen = 0, 0
		} else {
			return nil, err
		}
	}

	var approximate *indicatordomain.Match

	for ndcLen := maxLen; ndcLen >= minLen; ndcLen-- {
		if ndcLen >= len(local) && ndcLen > 0 {
			continue
		}

		ndc := 0
		if ndcLen > 0 {
			parsed, err := strconv.Atoi(local[:ndcLen])
			if err != nil || parsed == 0 {
				continue
			}
			ndc = parsed
		}
		subscriber := local[ndcLen:]
		if req.MinSubscriberLen > 0 && len(subscriber) < req.MinSubscriberLen {
			continue
		}
		if req.MaxSubscriberLen > 0 && len(subscriber) > req.MaxSubscriberLen {
			continue
		}

		series, err := s.repo.ListSeries(ctx, req.OriginCountryID, ndc)
		if err != nil {
			return nil, err
		}
		for _, row := range series {
			if !seriesContains(row, subscriber) {
				continue
			}
			name, err := s.repo.IndicatorName(ctx, row.IndicatorID)
			if err != nil {
				return nil, err
			}
			return &indicatordomain.Match{
				IndicatorID:   row.IndicatorID,
				NDC:           ndc,
				Description:   name,
				Approximate:   false,
				MatchedNumber: local,
			}, nil
		}

		if approximate != nil || ndc == 0 {
			continue
		}
		known, err := s.repo.FindNDC(ctx, req.OriginCountryID, req.TelephonyTypeID, ndc)
		if err != nil {
			return nil, err
		}
		if known != nil {
			name := ""
			if known.DefaultIndicatorID != 0 {
				if name, err = s.repo.IndicatorName(ctx, known.DefaultIndicatorID); err != nil {
					return nil, err
				}
			}
			approximate = &indicatordomain.Match{
				IndicatorID:   known.DefaultIndicatorID,
				NDC:           ndc,
				Description:   name,
				Approximate:   true,
				MatchedNumber: local,
			}
		}
	}

	return approximate, nil
}

func (s *Service) IsLocalExtended(ctx context.Context, indicatorID, peerIndicatorID int64) (bool, error) {
	if indicatorID == 0 || peerIndicatorID == 0 || indicatorID == peerIndicatorID {
		return false, nil
	}
	return s.repo.HasLocalExtendedLink(ctx, indicatorID, peerIndicatorID)
}

// seriesContains checks the subscriber digits against one registered range,
// padded or truncated to the series' digit width.
func seriesContains(row indicatordomain.Series, subscriber string) bool {
	width := row.SubscriberLen
	if width <= 0 {
		width = len(subscriber)
	}
	adjusted := subscriber
	if len(adjusted) > width {
		adjusted = adjusted[:width]
	} else if len(adjusted) < width {
		adjusted = adjusted + strings.Repeat("0", width-len(adjusted))
	}
	value, err := strconv.ParseInt(adjusted, 10, 64)
	if err != nil {
		return false
	}
	return value >= row.InitialNumber && value <= row.FinalNumber
}
