package shipping

import (
	"github.com/forgenet/forgenet/internal/shipping/repository"
	"github.com/forgenet/forgenet/internal/shipping/service"
	"go.uber.org/fx"
)

var Module = fx.Module("shipping",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
