package mediation

import (
	"go.uber.org/fx"

	"github.com/cdrmed/cdrmed/internal/mediation/service"
)

var Module = fx.Module("mediation.service",
	fx.Provide(service.NewService),
)
