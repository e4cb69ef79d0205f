package identity

import (
	"github.com/forgenet/forgenet/internal/identity/repository"
	"github.com/forgenet/forgenet/internal/identity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("identity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
