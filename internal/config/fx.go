package config

import "go.uber.org/fx"

// Module wires application and rating configuration.
var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewRatingParamsHolder,
	),
)
