package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	"github.com/forgenet/forgenet/internal/qc/domain"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	JobRepo jobdomain.Repository
	Scorer  domain.Scorer
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	repo    domain.Repository
	jobRepo jobdomain.Repository
	scorer  domain.Scorer
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log,
		genID:   p.GenID,
		repo:    p.Repo,
		jobRepo: p.JobRepo,
		scorer:  p.Scorer,
	}
}

func (s *service) SubmitRecord(ctx context.Context, req domain.SubmitQCRequest) error {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return jobdomain.ErrForbidden
	}
	if req.QCScore < 0 || req.QCScore > 1 {
		return domain.ErrInvalidScore
	}
	status := domain.StatusForScore(req.QCScore)
	if req.Status != "" {
		status = domain.QCStatus(req.Status)
		if !status.Valid() {
			return domain.ErrInvalidStatus
		}
	}

	job, err := s.loadJob(ctx, req.JobID)
	if err != nil {
		return err
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionSubmitQC); err != nil {
		return err
	}
	if !jobdomain.CanTransition(job.Status, jobdomain.StatusQCDone) {
		return jobdomain.ErrInvalidTransition
	}

	rec := &domain.QCRecord{
		ID:             s.genID.Generate(),
		JobID:          job.ID,
		ManufacturerID: *job.SelectedManufacturerID,
		QCScore:        req.QCScore,
		Status:         status,
		Similarity:     req.Similarity,
		EvidencePaths:  datatypes.NewJSONSlice(req.EvidencePaths),
		ModelVersion:   req.ModelVersion,
	}
	if req.EvidencePaths == nil {
		rec.EvidencePaths = datatypes.NewJSONSlice([]string{})
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, rec); err != nil {
			return err
		}
		moved, err := s.jobRepo.UpdateStatus(ctx, tx, job.ID, job.Status, jobdomain.StatusQCDone)
		if err != nil {
			return err
		}
		if !moved {
			return jobdomain.ErrStaleStatus
		}
		return nil
	})
}

func (s *service) RunCheck(ctx context.Context, req domain.RunCheckRequest) (domain.ScoreResult, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.ScoreResult{}, jobdomain.ErrForbidden
	}
	job, err := s.loadJob(ctx, req.JobID)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionView); err != nil {
		return domain.ScoreResult{}, err
	}

	in := domain.ScoreInput{
		JobID:         job.ID.String(),
		Material:      job.Material,
		ToleranceTier: string(job.ToleranceTier),
		EvidencePaths: req.EvidencePaths,
	}
	if job.STLPath != nil {
		in.STLPath = *job.STLPath
	}

	result, err := s.scorer.Score(ctx, in)
	if err != nil {
		return domain.ScoreResult{}, err
	}

	// Persisting the record is best-effort: the verdict has already been
	// computed and the caller gets it either way.
	if job.SelectedManufacturerID != nil {
		rec := &domain.QCRecord{
			ID:             s.genID.Generate(),
			JobID:          job.ID,
			ManufacturerID: *job.SelectedManufacturerID,
			QCScore:        result.Score,
			Status:         result.Status,
			Similarity:     result.Similarity,
			EvidencePaths:  datatypes.NewJSONSlice(req.EvidencePaths),
			ModelVersion:   result.ModelVersion,
		}
		if req.EvidencePaths == nil {
			rec.EvidencePaths = datatypes.NewJSONSlice([]string{})
		}
		if insertErr := s.repo.Insert(ctx, s.db, rec); insertErr != nil {
			s.log.Error("failed to persist qc record",
				zap.String("job_id", job.ID.String()),
				zap.Error(insertErr),
			)
		}
	}

	return result, nil
}

func (s *service) ListForJob(ctx context.Context, jobID string) ([]domain.QCRecord, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return nil, jobdomain.ErrForbidden
	}
	job, err := s.loadJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionView); err != nil {
		return nil, err
	}
	recs, err := s.repo.ListForJob(ctx, s.db, job.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.QCRecord, 0, len(recs))
	for _, r := range recs {
		out = append(out, *r)
	}
	return out, nil
}

func (s *service) loadJob(ctx context.Context, id string) (*jobdomain.Job, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, jobdomain.ErrInvalidID
	}
	job, err := s.jobRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, jobdomain.ErrNotFound
	}
	return job, nil
}
