package manufacturer

import (
	"github.com/forgenet/forgenet/internal/manufacturer/repository"
	"github.com/forgenet/forgenet/internal/manufacturer/service"
	"go.uber.org/fx"
)

var Module = fx.Module("manufacturer",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
