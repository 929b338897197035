package quarantine

import (
	"github.com/cdrmed/cdrmed/internal/quarantine/repository"
	"github.com/cdrmed/cdrmed/internal/quarantine/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quarantine.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
