package band

import (
	"github.com/cdrmed/cdrmed/internal/band/repository"
	"github.com/cdrmed/cdrmed/internal/band/service"
	"go.uber.org/fx"
)

var Module = fx.Module("band.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
