package callrecord

import (
	"github.com/cdrmed/cdrmed/internal/callrecord/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("callrecord.repository",
	fx.Provide(
		repository.Provide,
	),
)
