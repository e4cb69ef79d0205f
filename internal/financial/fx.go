package financial

import (
	"github.com/forgenet/forgenet/internal/financial/repository"
	"github.com/forgenet/forgenet/internal/financial/service"
	"go.uber.org/fx"
)

var Module = fx.Module("financial",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
