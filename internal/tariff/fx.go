package tariff

import (
	"github.com/cdrmed/cdrmed/internal/tariff/repository"
	"github.com/cdrmed/cdrmed/internal/tariff/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tariff.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
