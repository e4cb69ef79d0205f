package forgeai

import "go.uber.org/fx"

var Module = fx.Module("forgeai",
	fx.Provide(New),
)
