package session

import "go.uber.org/fx"

var Module = fx.Module("identity.session",
	fx.Provide(NewManager),
)
