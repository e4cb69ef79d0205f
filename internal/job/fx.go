package job

import (
	"github.com/forgenet/forgenet/internal/job/repository"
	"github.com/forgenet/forgenet/internal/job/service"
	"go.uber.org/fx"
)

var Module = fx.Module("job",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
