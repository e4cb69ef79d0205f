package dispute

import (
	"github.com/forgenet/forgenet/internal/dispute/repository"
	"github.com/forgenet/forgenet/internal/dispute/service"
	"go.uber.org/fx"
)

var Module = fx.Module("dispute",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
