package service

import (
	"context"

	"github.com/forgenet/forgenet/internal/actorcontext"
	"github.com/forgenet/forgenet/internal/financial/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Repo domain.Repository
}

type service struct {
	db   *gorm.DB
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &service{db: p.DB, repo: p.Repo}
}

func (s *service) ListForCaller(ctx context.Context) ([]domain.Transaction, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return nil, domain.ErrNoActor
	}
	txns, err := s.repo.ListForUser(ctx, s.db, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Transaction, 0, len(txns))
	for _, t := range txns {
		out = append(out, *t)
	}
	return out, nil
}
