package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type RankInput struct {
	Material      string
	ToleranceTier string
	LocationState string
}

type RankedManufacturer struct {
	ManufacturerID snowflake.ID       `json:"manufacturer_id"`
	RankScore      float64            `json:"rank_score"`
	Explanations   map[string]float64 `json:"explanations"`
}

type RankResult struct {
	Ranked       []RankedManufacturer `json:"ranked"`
	ModelVersion string               `json:"model_version"`
}

type Service interface {
	// RankForJob scores every manufacturer profile against the job
	// requirements and returns them best-first.
	RankForJob(context.Context, RankInput) (RankResult, error)

	// StoreRecommendations persists the top-ranked matches for a job,
	// replacing any previous set. Callers pass their own transaction when
	// the write must commit atomically with other rows.
	StoreRecommendations(ctx context.Context, db *gorm.DB, jobID snowflake.ID, res RankResult) error
}

var ErrInvalidMaterial = errors.New("invalid_material")
