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
	financialdomain "github.com/forgenet/forgenet/internal/financial/domain"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	"github.com/forgenet/forgenet/internal/shipping/domain"
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	Repo          domain.Repository
	JobRepo       jobdomain.Repository
	FinancialRepo financialdomain.Repository
}

type service struct {
	db            *gorm.DB
	log           *zap.Logger
	repo          domain.Repository
	jobRepo       jobdomain.Repository
	financialRepo financialdomain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:            p.DB,
		log:           p.Log,
		repo:          p.Repo,
		jobRepo:       p.JobRepo,
		financialRepo: p.FinancialRepo,
	}
}

func (s *service) Ship(ctx context.Context, req domain.ShipRequest) error {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return jobdomain.ErrForbidden
	}
	carrier := strings.TrimSpace(req.Carrier)
	if carrier == "" {
		return domain.ErrInvalidCarrier
	}
	tracking := strings.TrimSpace(req.TrackingNumber)
	if tracking == "" {
		return domain.ErrInvalidTracking
	}

	parsed, err := snowflake.ParseString(req.JobID)
	if err != nil {
		return jobdomain.ErrInvalidID
	}
	job, err := s.jobRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return err
	}
	if job == nil {
		return jobdomain.ErrNotFound
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionShip); err != nil {
		return err
	}
	// Re-shipping an accepted job only refreshes the carrier fields.
	alreadyAccepted := job.Status == jobdomain.StatusAccepted
	if !alreadyAccepted && !jobdomain.CanTransition(job.Status, jobdomain.StatusAccepted) {
		return jobdomain.ErrInvalidTransition
	}

	rec := &domain.ShippingRecord{
		JobID:          job.ID,
		ManufacturerID: *job.SelectedManufacturerID,
		Carrier:        carrier,
		TrackingNumber: tracking,
		ShippedAt:      time.Now().UTC(),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Upsert(ctx, tx, rec); err != nil {
			return err
		}
		if !alreadyAccepted {
			moved, err := s.jobRepo.UpdateStatus(ctx, tx, job.ID, job.Status, jobdomain.StatusAccepted)
			if err != nil {
				return err
			}
			if !moved {
				return jobdomain.ErrStaleStatus
			}
		}
		_, err := s.financialRepo.AuthorizeForJob(ctx, tx, job.ID)
		return err
	})
	if err != nil {
		return err
	}

	s.log.Info("job shipped",
		zap.String("job_id", job.ID.String()),
		zap.String("carrier", carrier),
	)
	return nil
}

func (s *service) GetForJob(ctx context.Context, jobID string) (domain.ShippingRecord, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.ShippingRecord{}, jobdomain.ErrForbidden
	}
	parsed, err := snowflake.ParseString(jobID)
	if err != nil {
		return domain.ShippingRecord{}, jobdomain.ErrInvalidID
	}
	job, err := s.jobRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.ShippingRecord{}, err
	}
	if job == nil {
		return domain.ShippingRecord{}, jobdomain.ErrNotFound
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionView); err != nil {
		return domain.ShippingRecord{}, err
	}
	rec, err := s.repo.FindByJob(ctx, s.db, job.ID)
	if err != nil {
		return domain.ShippingRecord{}, err
	}
	if rec == nil {
		return domain.ShippingRecord{}, domain.ErrNotFound
	}
	return *rec, nil
}
