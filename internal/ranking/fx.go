package ranking

import (
	"github.com/forgenet/forgenet/internal/ranking/repository"
	"github.com/forgenet/forgenet/internal/ranking/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ranking",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
