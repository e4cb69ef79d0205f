package payestimate

import (
	"github.com/forgenet/forgenet/internal/payestimate/repository"
	"github.com/forgenet/forgenet/internal/payestimate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payestimate",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
