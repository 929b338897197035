package indicator

import (
	"github.com/cdrmed/cdrmed/internal/indicator/repository"
	"github.com/cdrmed/cdrmed/internal/indicator/service"
	"go.uber.org/fx"
)

var Module = fx.Module("indicator.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
