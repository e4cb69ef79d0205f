package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Recommendation is a stored match between a job and a manufacturer.
type Recommendation struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	JobID          snowflake.ID      `gorm:"not null;uniqueIndex:idx_job_manufacturer" json:"job_id"`
	ManufacturerID snowflake.ID      `gorm:"not null;uniqueIndex:idx_job_manufacturer" json:"manufacturer_id"`
	RankScore      float64           `gorm:"not null" json:"rank_score"`
	Explanations   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"explanations"`
	ModelVersion   string            `gorm:"not null;default:''" json:"model_version"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Recommendation) TableName() string { return "job_recommendations" }
