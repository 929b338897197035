package prefix

import (
	"github.com/cdrmed/cdrmed/internal/prefix/repository"
	"github.com/cdrmed/cdrmed/internal/prefix/service"
	"go.uber.org/fx"
)

var Module = fx.Module("prefix.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
