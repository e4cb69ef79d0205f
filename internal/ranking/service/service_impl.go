package service

import (
	"context"
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/forgeai"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	"github.com/forgenet/forgenet/internal/ranking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	weightEquipment  = 0.30
	weightReputation = 0.25
	weightCapacity   = 0.20
	weightLocation   = 0.15
	weightTolerance  = 0.10

	maxStoredRecommendations = 10

	localModelLabel = "local-heuristic-v1"
)

var tierOrder = map[string]int{"low": 0, "medium": 1, "high": 2}

type Params struct {
	fx.In

	DB                *gorm.DB
	Log               *zap.Logger
	GenID             *snowflake.Node
	AI                *forgeai.Client
	ManufacturerRepo  manufacturerdomain.Repository
	RecommendationRep domain.Repository
}

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	ai       *forgeai.Client
	mfgRepo  manufacturerdomain.Repository
	recsRepo domain.Repository
}

func New(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log,
		genID:    p.GenID,
		ai:       p.AI,
		mfgRepo:  p.ManufacturerRepo,
		recsRepo: p.RecommendationRep,
	}
}

func (s *service) RankForJob(ctx context.Context, in domain.RankInput) (domain.RankResult, error) {
	if in.Material == "" {
		return domain.RankResult{}, domain.ErrInvalidMaterial
	}

	candidates, err := s.mfgRepo.List(ctx, s.db, manufacturerdomain.ListFilter{})
	if err != nil {
		return domain.RankResult{}, err
	}

	res := s.rankRemote(ctx, in, candidates)
	if res.Ranked == nil {
		res = domain.RankResult{
			Ranked:       rankLocal(in, candidates),
			ModelVersion: localModelLabel,
		}
	}

	sort.SliceStable(res.Ranked, func(i, j int) bool {
		return res.Ranked[i].RankScore > res.Ranked[j].RankScore
	})
	return res, nil
}

func (s *service) StoreRecommendations(ctx context.Context, db *gorm.DB, jobID snowflake.ID, res domain.RankResult) error {
	top := res.Ranked
	if len(top) > maxStoredRecommendations {
		top = top[:maxStoredRecommendations]
	}
	recs := make([]*domain.Recommendation, 0, len(top))
	for _, r := range top {
		explanations := datatypes.JSONMap{}
		for k, v := range r.Explanations {
			explanations[k] = v
		}
		recs = append(recs, &domain.Recommendation{
			ID:             s.genID.Generate(),
			JobID:          jobID,
			ManufacturerID: r.ManufacturerID,
			RankScore:      r.RankScore,
			Explanations:   explanations,
			ModelVersion:   res.ModelVersion,
		})
	}
	return s.recsRepo.ReplaceForJob(ctx, db, jobID, recs)
}

// rankRemote delegates scoring upstream; a zero result means the caller
// should rank locally instead.
func (s *service) rankRemote(ctx context.Context, in domain.RankInput, candidates []*manufacturerdomain.Manufacturer) domain.RankResult {
	if !s.ai.Enabled() || len(candidates) == 0 {
		return domain.RankResult{}
	}
	req := forgeai.RankRequest{
		Material:      in.Material,
		ToleranceTier: in.ToleranceTier,
		LocationState: in.LocationState,
	}
	for _, m := range candidates {
		req.Candidates = append(req.Candidates, forgeai.RankCandidate{
			ManufacturerID: m.ID.String(),
			Materials:      []string(m.Materials),
			ToleranceTier:  m.ToleranceTier,
			AverageRating:  m.AverageRating,
			CapacityScore:  m.CapacityScore,
			LocationState:  m.LocationState,
		})
	}
	resp, err := s.ai.RankManufacturers(ctx, req)
	if err != nil {
		s.log.Warn("ranking upstream failed, using local heuristic", zap.Error(err))
		return domain.RankResult{}
	}
	out := make([]domain.RankedManufacturer, 0, len(resp.Ranked))
	for _, entry := range resp.Ranked {
		id, parseErr := snowflake.ParseString(entry.ManufacturerID)
		if parseErr != nil {
			continue
		}
		out = append(out, domain.RankedManufacturer{
			ManufacturerID: id,
			RankScore:      clamp01(entry.RankScore),
			Explanations:   entry.Explanations,
		})
	}
	return domain.RankResult{Ranked: out, ModelVersion: resp.ModelVersion}
}

func rankLocal(in domain.RankInput, candidates []*manufacturerdomain.Manufacturer) []domain.RankedManufacturer {
	out := make([]domain.RankedManufacturer, 0, len(candidates))
	for _, m := range candidates {
		out = append(out, ScoreCandidate(in, m))
	}
	return out
}

// ScoreCandidate computes the weighted heuristic for one manufacturer.
// Explanations carry the weighted contribution of each factor so callers
// can show why a match ranked where it did.
func ScoreCandidate(in domain.RankInput, m *manufacturerdomain.Manufacturer) domain.RankedManufacturer {
	equipment := 0.0
	for _, mat := range m.Materials {
		if mat == in.Material {
			equipment = 1.0
			break
		}
	}

	reputation := clamp01(m.AverageRating / 5.0)
	capacity := clamp01(m.CapacityScore)

	location := 0.0
	if in.LocationState != "" && m.LocationState == in.LocationState {
		location = 1.0
	}

	tolerance := 0.0
	if tierOrder[m.ToleranceTier] >= tierOrder[in.ToleranceTier] {
		tolerance = 1.0
	}

	explanations := map[string]float64{
		"equipment_match": weightEquipment * equipment,
		"reputation":      weightReputation * reputation,
		"capacity":        weightCapacity * capacity,
		"location":        weightLocation * location,
		"tolerance_match": weightTolerance * tolerance,
	}

	score := 0.0
	for _, contribution := range explanations {
		score += contribution
	}

	return domain.RankedManufacturer{
		ManufacturerID: m.ID,
		RankScore:      clamp01(score),
		Explanations:   explanations,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
