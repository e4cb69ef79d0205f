package service

import (
	"context"
	"math"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	"github.com/forgenet/forgenet/internal/forgeai"
	jobdomain "github.com/forgenet/forgenet/internal/job/domain"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	"github.com/forgenet/forgenet/internal/rating/domain"
	"github.com/forgenet/forgenet/pkg/db"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	AI      *forgeai.Client
	Repo    domain.Repository
	JobRepo jobdomain.Repository
	MfgRepo manufacturerdomain.Repository
}

type service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	ai      *forgeai.Client
	repo    domain.Repository
	jobRepo jobdomain.Repository
	mfgRepo manufacturerdomain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:      p.DB,
		log:     p.Log,
		genID:   p.GenID,
		ai:      p.AI,
		repo:    p.Repo,
		jobRepo: p.JobRepo,
		mfgRepo: p.MfgRepo,
	}
}

func (s *service) Submit(ctx context.Context, req domain.SubmitRatingRequest) (domain.Rating, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.Rating{}, jobdomain.ErrForbidden
	}
	if req.Rating < 1 || req.Rating > 5 {
		return domain.Rating{}, domain.ErrInvalidRating
	}

	parsed, err := snowflake.ParseString(req.JobID)
	if err != nil {
		return domain.Rating{}, jobdomain.ErrInvalidID
	}
	job, err := s.jobRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Rating{}, err
	}
	if job == nil {
		return domain.Rating{}, jobdomain.ErrNotFound
	}
	if err := jobdomain.Authorize(actor, job, jobdomain.ActionRate); err != nil {
		return domain.Rating{}, err
	}
	if job.SelectedManufacturerID == nil {
		return domain.Rating{}, jobdomain.ErrNoManufacturer
	}
	if job.Status != jobdomain.StatusAccepted && job.Status != jobdomain.StatusResolved {
		return domain.Rating{}, domain.ErrJobNotRatable
	}

	rating := domain.Rating{
		ID:             s.genID.Generate(),
		JobID:          job.ID,
		ManufacturerID: *job.SelectedManufacturerID,
		ClientID:       job.ClientID,
		Rating:         req.Rating,
	}
	if comment := strings.TrimSpace(req.Comment); comment != "" {
		rating.Comment = &comment
	}

	if err := s.repo.Insert(ctx, s.db, &rating); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return domain.Rating{}, domain.ErrAlreadyRated
		}
		return domain.Rating{}, err
	}

	// Refresh the profile stats with the plain mean; the remote model
	// only comes into play on explicit aggregation.
	if err := s.writeback(ctx, rating.ManufacturerID); err != nil {
		s.log.Warn("rating writeback failed",
			zap.String("manufacturer_id", rating.ManufacturerID.String()),
			zap.Error(err),
		)
	}
	return rating, nil
}

func (s *service) Aggregate(ctx context.Context, manufacturerID string) (domain.AggregateResult, error) {
	parsed, err := snowflake.ParseString(manufacturerID)
	if err != nil {
		return domain.AggregateResult{}, manufacturerdomain.ErrInvalidID
	}
	m, err := s.mfgRepo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.AggregateResult{}, err
	}
	if m == nil {
		return domain.AggregateResult{}, manufacturerdomain.ErrNotFound
	}

	ratings, err := s.repo.ListForManufacturer(ctx, s.db, parsed)
	if err != nil {
		return domain.AggregateResult{}, err
	}

	average := 0.0
	modelVersion := ""
	if s.ai.Enabled() && len(ratings) > 0 {
		values := make([]int, 0, len(ratings))
		for _, r := range ratings {
			values = append(values, r.Rating)
		}
		resp, aiErr := s.ai.AggregateRatings(ctx, forgeai.RateRequest{
			ManufacturerID: manufacturerID,
			Ratings:        values,
		})
		if aiErr != nil {
			return domain.AggregateResult{}, aiErr
		}
		average = resp.AverageRating
		modelVersion = resp.ModelVersion
	} else {
		average = mean(ratings)
	}
	average = round2(average)

	if err := s.mfgRepo.UpdateRatingStats(ctx, s.db, parsed, average, len(ratings)); err != nil {
		return domain.AggregateResult{}, err
	}

	return domain.AggregateResult{
		ManufacturerID: manufacturerID,
		AverageRating:  average,
		TotalRatings:   len(ratings),
		ModelVersion:   modelVersion,
	}, nil
}

func (s *service) writeback(ctx context.Context, manufacturerID snowflake.ID) error {
	ratings, err := s.repo.ListForManufacturer(ctx, s.db, manufacturerID)
	if err != nil {
		return err
	}
	return s.mfgRepo.UpdateRatingStats(ctx, s.db, manufacturerID, round2(mean(ratings)), len(ratings))
}

func mean(ratings []*domain.Rating) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r.Rating
	}
	return float64(sum) / float64(len(ratings))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
