package qc

import (
	"github.com/forgenet/forgenet/internal/qc/repository"
	"github.com/forgenet/forgenet/internal/qc/scorer"
	"github.com/forgenet/forgenet/internal/qc/service"
	"go.uber.org/fx"
)

var Module = fx.Module("qc",
	fx.Provide(
		repository.Provide,
		scorer.Select,
		service.New,
	),
)
