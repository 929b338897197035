package service

import (
	"context"

	banddomain "github.com/cdrmed/cdrmed/internal/band/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo banddomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo banddomain.Repository
}

func NewService(p ServiceParam) banddomain.Service {
	return &Service{
		log:  p.Log.Named("band.service"),
		repo: p.Repo,
	}
}

func (s *Service) FindOverride(ctx context.Context, prefixID snowflake.ID, indicatorID, originIndicatorID int64) (*banddomain.Band, error) {
	if prefixID == 0 || indicatorID == 0 {
		return nil, nil
	}

	if originIndicatorID != 0 {
		band, err := s.repo.FindForIndicator(ctx, prefixID, indicatorID, originIndicatorID)
		if err != nil {
			return nil, err
		}
		if band != nil {
			return band, nil
		}
	}

	// Global band scoped to origin indicator 0.
	return s.repo.FindForIndicator(ctx, prefixID, indicatorID, 0)
}
