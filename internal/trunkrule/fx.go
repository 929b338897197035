package trunkrule

import (
	"github.com/cdrmed/cdrmed/internal/trunkrule/repository"
	"github.com/cdrmed/cdrmed/internal/trunkrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("trunkrule.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
