package extension

import (
	"github.com/cdrmed/cdrmed/internal/extension/repository"
	"github.com/cdrmed/cdrmed/internal/extension/service"
	"go.uber.org/fx"
)

var Module = fx.Module("extension.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
