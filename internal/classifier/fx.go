package classifier

import (
	"github.com/cdrmed/cdrmed/internal/classifier/service"
	"go.uber.org/fx"
)

var Module = fx.Module("classifier.service",
	fx.Provide(
		service.NewService,
	),
)
