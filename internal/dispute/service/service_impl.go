package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	"github.com/forgenet/forgenet/internal/dispute/domain"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	JobRepo jobdomain.Repository
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	jobRepo jobdomain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log,
		genID:   p.GenID,
		repo:    p.Repo,
		jobRepo: p.JobRepo,
	}
}

func (s *service) Open(ctx context.Context, req domain.OpenDisputeRequest) (domain.Dispute, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.Dispute{}, jobdomain.ErrForbidden
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return domain.Dispute{}, domain.ErrInvalidReason
	}

	parsed, err := snowflake.ParseString(req.JobID)
	if err != nil {
		return domain.Dispute{}, jobdomain.ErrInvalidID
	}
	job, err := s.jobRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Dispute{}, err
	}
	if job == nil {
		return domain.Dispute{}, jobdomain.ErrNotFound
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionOpenDispute); err != nil {
		return domain.Dispute{}, err
	}
	if job.SelectedManufacturerID == nil {
		return domain.Dispute{}, jobdomain.ErrNoManufacturer
	}
	if !jobdomain.CanTransition(job.Status, jobdomain.StatusDisputed) {
		return domain.Dispute{}, jobdomain.ErrInvalidTransition
	}

	d := domain.Dispute{
		ID:             s.genID.Generate(),
		JobID:          job.ID,
		ClientID:       job.ClientID,
		ManufacturerID: *job.SelectedManufacturerID,
		Reason:         reason,
		Status:         domain.StatusOpen,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &d); err != nil {
			return err
		}
		moved, err := s.jobRepo.UpdateStatus(ctx, tx, job.ID, job.Status, jobdomain.StatusDisputed)
		if err != nil {
			return err
		}
		if !moved {
			return jobdomain.ErrStaleStatus
		}
		return nil
	})
	if err != nil {
		return domain.Dispute{}, err
	}

	s.log.Info("dispute opened",
		zap.String("dispute_id", d.ID.String()),
		zap.String("job_id", job.ID.String()),
	)
	return d, nil
}

func (s *service) Resolve(ctx context.Context, req domain.ResolveDisputeRequest) (domain.Dispute, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.Dispute{}, jobdomain.ErrForbidden
	}
	if actor.Role != identitydomain.RoleAdmin {
		return domain.Dispute{}, jobdomain.ErrForbidden
	}
	resolution := strings.TrimSpace(req.Resolution)
	if resolution == "" {
		return domain.Dispute{}, domain.ErrInvalidResolution
	}

	parsed, err := snowflake.ParseString(req.DisputeID)
	if err != nil {
		return domain.Dispute{}, jobdomain.ErrInvalidID
	}
	d, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Dispute{}, err
	}
	if d == nil {
		return domain.Dispute{}, domain.ErrNotFound
	}
	if d.Status == domain.StatusResolved {
		return domain.Dispute{}, domain.ErrAlreadyResolved
	}

	now := time.Now().UTC()
	d.Status = domain.StatusResolved
	d.Resolution = &resolution
	d.ResolvedBy = &actor.ID
	d.ResolvedAt = &now

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Update(ctx, tx, d); err != nil {
			return err
		}
		moved, err := s.jobRepo.UpdateStatus(ctx, tx, d.JobID, jobdomain.StatusDisputed, jobdomain.StatusResolved)
		if err != nil {
			return err
		}
		if !moved {
			return jobdomain.ErrStaleStatus
		}
		return nil
	})
	if err != nil {
		return domain.Dispute{}, err
	}

	s.log.Info("dispute resolved",
		zap.String("dispute_id", d.ID.String()),
		zap.String("resolved_by", actor.ID.String()),
	)
	return *d, nil
}

func (s *service) List(ctx context.Context) ([]domain.Dispute, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return nil, jobdomain.ErrForbidden
	}
	filter := domain.ListFilter{}
	if actor.Role != identitydomain.RoleAdmin {
		filter.PartyID = actor.ID
	}
	ds, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Dispute, 0, len(ds))
	for _, d := range ds {
		out = append(out, *d)
	}
	return out, nil
}
