package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/forgenet/forgenet/internal/config"
	"github.com/forgenet/forgenet/internal/forgeai"
	manufacturerdomain "github.com/forgenet/forgenet/internal/manufacturer/domain"
	manufacturerrepo "github.com/forgenet/forgenet/internal/manufacturer/repository"
	"github.com/forgenet/forgenet/internal/ranking/domain"
	rankingrepo "github.com/forgenet/forgenet/internal/ranking/repository"
)

func setupRankingService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&manufacturerdomain.Manufacturer{}, &domain.Recommendation{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:                db,
		Log:               zap.NewNop(),
		GenID:             node,
		AI:                forgeai.New(config.Config{}, zap.NewNop()),
		ManufacturerRepo:  manufacturerrepo.Provide(),
		RecommendationRep: rankingrepo.Provide(),
	})
	return svc, db
}

func TestScoreCandidatePerfectMatch(t *testing.T) {
	in := domain.RankInput{Material: "PLA", ToleranceTier: "high", LocationState: "OR"}
	m := &manufacturerdomain.Manufacturer{
		ID:            snowflake.ID(1),
		Materials:     datatypes.NewJSONSlice([]string{"PLA", "ABS"}),
		ToleranceTier: "high",
		AverageRating: 5.0,
		CapacityScore: 1.0,
		LocationState: "OR",
	}

	ranked := ScoreCandidate(in, m)
	assert.InDelta(t, 1.0, ranked.RankScore, 1e-9)
	assert.InDelta(t, 0.30, ranked.Explanations["equipment_match"], 1e-9)
	assert.InDelta(t, 0.25, ranked.Explanations["reputation"], 1e-9)
	assert.InDelta(t, 0.20, ranked.Explanations["capacity"], 1e-9)
	assert.InDelta(t, 0.15, ranked.Explanations["location"], 1e-9)
	assert.InDelta(t, 0.10, ranked.Explanations["tolerance_match"], 1e-9)
}

func TestScoreCandidatePartialMatch(t *testing.T) {
	in := domain.RankInput{Material: "PLA", ToleranceTier: "high", LocationState: "OR"}
	m := &manufacturerdomain.Manufacturer{
		ID:            snowflake.ID(2),
		Materials:     datatypes.NewJSONSlice([]string{"PLA"}),
		ToleranceTier: "medium", // cannot hold the requested tolerance
		AverageRating: 4.0,
		CapacityScore: 0.5,
		LocationState: "MI",
	}

	ranked := ScoreCandidate(in, m)
	// 0.30 equipment + 0.25*(4/5) + 0.20*0.5, no location or tolerance credit
	assert.InDelta(t, 0.60, ranked.RankScore, 1e-9)
	assert.InDelta(t, 0.0, ranked.Explanations["tolerance_match"], 1e-9)
	assert.InDelta(t, 0.0, ranked.Explanations["location"], 1e-9)
}

func TestScoreCandidateNoMatch(t *testing.T) {
	in := domain.RankInput{Material: "304 Stainless Steel", ToleranceTier: "high"}
	m := &manufacturerdomain.Manufacturer{
		ID:            snowflake.ID(3),
		Materials:     datatypes.NewJSONSlice([]string{"PLA"}),
		ToleranceTier: "low",
	}

	ranked := ScoreCandidate(in, m)
	assert.InDelta(t, 0.0, ranked.RankScore, 1e-9)
}

func TestRankForJobOrdersBestFirst(t *testing.T) {
	svc, db := setupRankingService(t)

	strong := &manufacturerdomain.Manufacturer{
		ID:            snowflake.ID(10),
		Materials:     datatypes.NewJSONSlice([]string{"PLA"}),
		ToleranceTier: "high",
		AverageRating: 4.8,
		CapacityScore: 0.9,
	}
	weak := &manufacturerdomain.Manufacturer{
		ID:            snowflake.ID(11),
		Materials:     datatypes.NewJSONSlice([]string{"7075 Aluminum"}),
		ToleranceTier: "low",
		AverageRating: 3.0,
		CapacityScore: 0.2,
	}
	require.NoError(t, db.Create(strong).Error)
	require.NoError(t, db.Create(weak).Error)

	res, err := svc.RankForJob(context.Background(), domain.RankInput{
		Material:      "PLA",
		ToleranceTier: "medium",
	})
	require.NoError(t, err)
	require.Len(t, res.Ranked, 2)
	assert.Equal(t, strong.ID, res.Ranked[0].ManufacturerID)
	assert.Equal(t, weak.ID, res.Ranked[1].ManufacturerID)
	assert.Greater(t, res.Ranked[0].RankScore, res.Ranked[1].RankScore)
	assert.Equal(t, "local-heuristic-v1", res.ModelVersion)
}

func TestRankForJobRequiresMaterial(t *testing.T) {
	svc, _ := setupRankingService(t)
	_, err := svc.RankForJob(context.Background(), domain.RankInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidMaterial)
}

func TestStoreRecommendationsReplacesAndCaps(t *testing.T) {
	svc, db := setupRankingService(t)
	jobID := snowflake.ID(42)

	ranked := make([]domain.RankedManufacturer, 0, 12)
	for i := 0; i < 12; i++ {
		ranked = append(ranked, domain.RankedManufacturer{
			ManufacturerID: snowflake.ID(1000 + i),
			RankScore:      1.0 - float64(i)*0.05,
			Explanations:   map[string]float64{"equipment_match": 0.30},
		})
	}
	res := domain.RankResult{Ranked: ranked, ModelVersion: "local-heuristic-v1"}
	require.NoError(t, svc.StoreRecommendations(context.Background(), db, jobID, res))

	var count int64
	require.NoError(t, db.Model(&domain.Recommendation{}).Where("job_id = ?", jobID).Count(&count).Error)
	assert.EqualValues(t, 10, count)

	// storing again replaces rather than appends
	require.NoError(t, svc.StoreRecommendations(context.Background(), db, jobID, res))
	require.NoError(t, db.Model(&domain.Recommendation{}).Where("job_id = ?", jobID).Count(&count).Error)
	assert.EqualValues(t, 10, count)
}
