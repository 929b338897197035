package service

import (
	"context"

	ssdomain "github.com/cdrmed/cdrmed/internal/specialservice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo ssdomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo ssdomain.Repository
}

func NewService(p ServiceParam) ssdomain.Service {
	return &Service{
		log:  p.Log.Named("specialservice.service"),
		repo: p.Repo,
	}
}

func (s *Service) Resolve(ctx context.Context, number string, originCountryID, indicatorID int64) (*ssdomain.SpecialService, error) {
	if number == "" {
		return nil, nil
	}
	return s.repo.FindByNumber(ctx, originCountryID, indicatorID, number)
}
