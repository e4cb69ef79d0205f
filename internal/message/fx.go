package message

import (
	"github.com/forgenet/forgenet/internal/message/repository"
	"github.com/forgenet/forgenet/internal/message/service"
	"go.uber.org/fx"
)

var Module = fx.Module("message",
	fx.Provide(
		repository.Provide,
		service.New,
	),
)
