package service

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/actorcontext"
	financialdomain "github.com/forgenet/forgenet/internal/financial/domain"
	identitydomain "github.com/forgenet/forgenet/internal/identity/domain"
	"github.com/forgenet/forgenet/internal/job/domain"
	paydomain "github.com/forgenet/forgenet/internal/payestimate/domain"
	rankingdomain "github.com/forgenet/forgenet/internal/ranking/domain"
	"github.com/forgenet/forgenet/pkg/db/pagination"
)

const (
	defaultDeadlineDays = 14

	// Minimum heuristic score before a manufacturer is auto-assigned at
	// creation. Matches the equipment factor weight: a candidate that
	// cannot work the material never clears it alone.
	assignThreshold = 0.30
)

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	GenID         *snowflake.Node
	Repo          domain.Repository
	PayService    paydomain.Service
	PayRepo       paydomain.Repository
	Ranking       rankingdomain.Service
	FinancialRepo financialdomain.Repository
}

type service struct {
	db            *gorm.DB
	log           *zap.Logger
	genID         *snowflake.Node
	repo          domain.Repository
	payService    paydomain.Service
	payRepo       paydomain.Repository
	ranking       rankingdomain.Service
	financialRepo financialdomain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:            p.DB,
		log:           p.Log,
		genID:         p.GenID,
		repo:          p.Repo,
		payService:    p.PayService,
		payRepo:       p.PayRepo,
		ranking:       p.Ranking,
		financialRepo: p.FinancialRepo,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateJobRequest) (domain.CreateJobResponse, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.CreateJobResponse{}, domain.ErrForbidden
	}
	if actor.Role != identitydomain.RoleClient && actor.Role != identitydomain.RoleAdmin {
		return domain.CreateJobResponse{}, domain.ErrForbidden
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return domain.CreateJobResponse{}, domain.ErrInvalidTitle
	}
	material := strings.TrimSpace(req.Material)
	if material == "" {
		return domain.CreateJobResponse{}, domain.ErrInvalidMaterial
	}
	if req.Quantity <= 0 {
		return domain.CreateJobResponse{}, domain.ErrInvalidQuantity
	}

	tier := domain.TierMedium
	switch {
	case req.ToleranceThou != nil:
		tier = domain.TierFromThou(*req.ToleranceThou)
	case req.ToleranceTier != "":
		tier = domain.ToleranceTier(req.ToleranceTier)
		if !tier.Valid() {
			return domain.CreateJobResponse{}, domain.ErrInvalidTolerance
		}
	}

	now := time.Now().UTC()
	deadline := now.AddDate(0, 0, defaultDeadlineDays)
	if req.Deadline != nil && req.Deadline.After(now) {
		deadline = req.Deadline.UTC()
	}

	job := &domain.Job{
		ID:            s.genID.Generate(),
		ClientID:      actor.ID,
		Title:         title,
		Description:   strings.TrimSpace(req.Description),
		Material:      material,
		Quantity:      req.Quantity,
		ToleranceTier: tier,
		Deadline:      deadline,
		Status:        domain.StatusPosted,
	}
	if path := strings.TrimSpace(req.STLPath); path != "" {
		job.STLPath = &path
	}

	rankRes, err := s.ranking.RankForJob(ctx, rankingdomain.RankInput{
		Material:      material,
		ToleranceTier: string(tier),
	})
	if err != nil {
		return domain.CreateJobResponse{}, err
	}

	var match *rankingdomain.RankedManufacturer
	if len(rankRes.Ranked) > 0 && rankRes.Ranked[0].RankScore >= assignThreshold {
		match = &rankRes.Ranked[0]
		job.SelectedManufacturerID = &match.ManufacturerID
		job.Status = domain.StatusAssigned
	}

	estimate, err := s.payService.Estimate(ctx, paydomain.EstimateRequest{
		Material:       material,
		Quantity:       req.Quantity,
		ToleranceTier:  string(tier),
		EstimatedHours: req.EstimatedHours,
		DeadlineDays:   int(math.Ceil(deadline.Sub(now).Hours() / 24)),
	})
	if err != nil {
		return domain.CreateJobResponse{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, job); err != nil {
			return err
		}
		if err := s.payRepo.Upsert(ctx, tx, &paydomain.PayEstimate{
			JobID:        job.ID,
			SuggestedPay: estimate.SuggestedPay,
			RangeLow:     estimate.RangeLow,
			RangeHigh:    estimate.RangeHigh,
			Breakdown: datatypes.JSONMap{
				"materials": estimate.Breakdown.Materials,
				"labor":     estimate.Breakdown.Labor,
				"overhead":  estimate.Breakdown.Overhead,
				"margin":    estimate.Breakdown.Margin,
			},
			ModelVersion: estimate.ModelVersion,
			Fallback:     estimate.Fallback,
		}); err != nil {
			return err
		}
		if err := s.ranking.StoreRecommendations(ctx, tx, job.ID, rankRes); err != nil {
			return err
		}
		if match != nil {
			return s.financialRepo.Insert(ctx, tx, &financialdomain.Transaction{
				ID:             s.genID.Generate(),
				JobID:          job.ID,
				ClientID:       actor.ID,
				ManufacturerID: match.ManufacturerID,
				AmountCents:    int64(math.Round(estimate.SuggestedPay * 100)),
				Currency:       "USD",
				Kind:           financialdomain.KindJobEscrow,
				Status:         financialdomain.StatusPending,
				Description:    "escrow hold for " + title,
			})
		}
		return nil
	})
	if err != nil {
		return domain.CreateJobResponse{}, err
	}

	s.log.Info("job created",
		zap.String("job_id", job.ID.String()),
		zap.String("status", string(job.Status)),
	)

	resp := domain.CreateJobResponse{
		JobID:  job.ID.String(),
		Status: job.Status,
	}
	if job.SelectedManufacturerID != nil {
		selected := job.SelectedManufacturerID.String()
		resp.SelectedManufacturerID = &selected
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (domain.Job, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.Job{}, domain.ErrForbidden
	}
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return domain.Job{}, domain.ErrInvalidID
	}
	job, err := s.repo.FindByID(ctx, s.db, parsed)
	if err != nil {
		return domain.Job{}, err
	}
	if job == nil {
		return domain.Job{}, domain.ErrNotFound
	}
	if err := domain.Authorize(actor, job, domain.ActionView); err != nil {
		return domain.Job{}, err
	}
	return *job, nil
}

func (s *service) List(ctx context.Context, req domain.ListJobsRequest) (domain.ListJobsResponse, error) {
	actor, ok := actorcontext.ActorFromContext(ctx)
	if !ok {
		return domain.ListJobsResponse{}, domain.ErrForbidden
	}

	filter := domain.ListJobsFilter{}
	switch actor.Role {
	case identitydomain.RoleClient:
		filter.ClientID = actor.ID
	case identitydomain.RoleManufacturer:
		filter.ManufacturerID = actor.ID
	case identitydomain.RoleAdmin:
		// admins see everything
	default:
		return domain.ListJobsResponse{}, domain.ErrForbidden
	}
	if req.Status != "" {
		status := domain.Status(req.Status)
		if !status.Valid() {
			return domain.ListJobsResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	limit := req.PageSize
	if limit <= 0 || limit > 250 {
		limit = 50
	}
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: limit}

	jobs, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListJobsResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(jobs, limit, func(j *domain.Job) string {
		token, encodeErr := pagination.EncodeCursor(pagination.Cursor{
			ID:        j.ID.String(),
			CreatedAt: j.CreatedAt.UTC().Format(time.RFC3339),
		})
		if encodeErr != nil {
			return ""
		}
		return token
	})
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}

	out := make([]domain.Job, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, *j)
	}
	return domain.ListJobsResponse{PageInfo: *pageInfo, Jobs: out}, nil
}
