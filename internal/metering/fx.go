package metering

import "go.uber.org/fx"

var Module = fx.Module("metering.service",
	fx.Provide(NewService),
)
