package workflow

import (
	"github.com/forgenet/forgenet/internal/workflow/service"
	"go.uber.org/fx"
)

var Module = fx.Module("workflow",
	fx.Provide(
		service.New,
	),
)
