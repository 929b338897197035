package service

import (
	"context"
	"strings"

	trunkdomain "github.com/cdrmed/cdrmed/internal/trunkrule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo trunkdomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo trunkdomain.Repository
}

func NewService(p ServiceParam) trunkdomain.Service {
	return &Service{
		log:  p.Log.Named("trunkrule.service"),
		repo: p.Repo,
	}
}

func (s *Service) FindRate(ctx context.Context, trunkName string, telephonyTypeID, operatorID, indicatorID int64) (*trunkdomain.TrunkRate, error) {
	trunkName = strings.TrimSpace(trunkName)
	if trunkName == "" {
		return nil, nil
	}

	rows, err := s.repo.ListRates(ctx, trunkName, telephonyTypeID)
	if err != nil {
		return nil, err
	}

	var generic *trunkdomain.TrunkRate
	for i := range rows {
		row := rows[i]
		if !row.CoversIndicator(indicatorID) {
			continue
		}
		if row.OperatorID == operatorID && operatorID != 0 {
			return &row, nil
		}
		if row.OperatorID == 0 && generic == nil {
			generic = &row
		}
	}
	return generic, nil
}

func (s *Service) ApplyTransforms(ctx context.Context, trunkName, number string) (string, int64, error) {
	trunkName = strings.TrimSpace(trunkName)
	if trunkName == "" || number == "" {
		return number, 0, nil
	}

	rows, err := s.repo.ListTransforms(ctx, trunkName)
	if err != nil {
		return "", 0, err
	}
	for _, row := range rows {
		if row.MatchPrefix == "" || !strings.HasPrefix(number, row.MatchPrefix) {
			continue
		}
		return row.Replacement + number[len(row.MatchPrefix):], row.HintTelephonyTypeID, nil
	}
	return number, 0, nil
}
