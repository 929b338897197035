package pbxrule

import (
	"github.com/cdrmed/cdrmed/internal/pbxrule/repository"
	"github.com/cdrmed/cdrmed/internal/pbxrule/service"
	"go.uber.org/fx"
)

var Module = fx.Module("pbxrule.service",
	fx.Provide(
		repository.Provide,
		service.NewService,
	),
)
