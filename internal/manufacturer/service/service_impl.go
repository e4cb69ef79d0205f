package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/actorcontext"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	"github.com/forgenet/forgenet/internal/manufacturer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Repo domain.Repository
	Log  *zap.Logger
}

type service struct {
	db   *gorm.DB
	repo domain.Repository
	log  *zap.Logger
}

func New(p Params) domain.Service {
	return &service{db: p.DB, repo: p.Repo, log: p.Log}
}

var validTiers = map[string]bool{"high": true, "medium": true, "low": true}

func (s *service) UpsertProfile(ctx context.Context, req domain.UpsertProfileRequest) (domain.Manufacturer, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.Manufacturer{}, domain.ErrNotManufacturer
	}
	if actor.Role != identitydomain.RoleManufacturer && actor.Role != identitydomain.RoleAdmin {
		return domain.Manufacturer{}, domain.ErrNotManufacturer
	}
	tier := req.ToleranceTier
	if tier == "" {
		tier = "medium"
	}
	if !validTiers[tier] {
		return domain.Manufacturer{}, domain.ErrInvalidTolerance
	}
	capacity := req.CapacityScore
	if capacity <= 0 || capacity > 1 {
		capacity = 0.5
	}

	m := domain.Manufacturer{
		ID:            actor.ID,
		LocationState: req.LocationState,
		LocationZip:   req.LocationZip,
		Equipment:     datatypes.JSONMap(req.Equipment),
		Materials:     datatypes.NewJSONSlice(req.Materials),
		ToleranceTier: tier,
		CapacityScore: capacity,
	}
	if m.Equipment == nil {
		m.Equipment = datatypes.JSONMap{}
	}
	if req.Materials == nil {
		m.Materials = datatypes.NewJSONSlice([]string{})
	}
	if err := s.repo.Upsert(ctx, s.db, &m); err != nil {
		return domain.Manufacturer{}, err
	}
	s.log.Info("manufacturer profile upserted", zap.String("manufacturer_id", actor.ID.String()))
	return m, nil
}

func (s *service) GetByID(ctx context.Context, id string) (domain.Manufacturer, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return domain.Manufacturer{}, domain.ErrInvalidID
	}
	m, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Manufacturer{}, err
	}
	if m == nil {
		return domain.Manufacturer{}, domain.ErrNotFound
	}
	return *m, nil
}

func (s *service) List(ctx context.Context, req domain.ListManufacturersRequest) ([]domain.Manufacturer, error) {
	if req.ToleranceTier != "" && !validTiers[req.ToleranceTier] {
		return nil, domain.ErrInvalidTolerance
	}
	ms, err := s.repo.List(ctx, s.db, domain.ListFilter{
		Material:      req.Material,
		ToleranceTier: req.ToleranceTier,
	})
	if err != nil {
		return nil, err
	}
	out := make([]domain.Manufacturer, 0, len(ms))
	for _, m := range ms {
		out = append(out, *m)
	}
	return out, nil
}
