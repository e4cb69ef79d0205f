package rating

import (
	"github.com/forgenet/forgenet/internal/rating/repository"
	"github.com/forgenet/forgenet/internal/rating/service"
	"go.uber.org/fx"
)

var Module = fx.Module("rating",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
