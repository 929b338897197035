package specialservice

import (
	"github.com/cdrmed/cdrmed/internal/specialservice/repository"
	"github.com/cdrmed/cdrmed/internal/specialservice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("specialservice.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
