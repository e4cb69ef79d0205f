package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// PayEstimate is the persisted estimate for a job, one row per job.
type PayEstimate struct {
	JobID        snowflake.ID      `gorm:"primaryKey" json:"job_id"`
	SuggestedPay float64           `gorm:"not null" json:"suggested_pay"`
	RangeLow     float64           `gorm:"not null" json:"range_low"`
	RangeHigh    float64           `gorm:"not null" json:"range_high"`
	Breakdown    datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"breakdown"`
	ModelVersion string            `gorm:"not null;default:''" json:"model_version"`
	Fallback     bool              `gorm:"not null;default:false" json:"fallback"`
	CreatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PayEstimate) TableName() string { return "pay_estimates" }
