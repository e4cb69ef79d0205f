package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type QCStatus string

const (
	StatusPass   QCStatus = "pass"
	StatusReview QCStatus = "review"
	StatusFail   QCStatus = "fail"
)

func (s QCStatus) Valid() bool {
	switch s {
	case StatusPass, StatusReview, StatusFail:
		return true
	default:
		return false
	}
}

// StatusForScore maps a quality score to its verdict. Boundaries are
// inclusive: 0.85 passes, 0.65 goes to review.
func StatusForScore(score float64) QCStatus {
	switch {
	case score >= 0.85:
		return StatusPass
	case score >= 0.65:
		return StatusReview
	default:
		return StatusFail
	}
}

// QCRecord is one quality-control submission for a job. Append-only:
// re-checks add rows instead of mutating earlier verdicts.
type QCRecord struct {
	ID             snowflake.ID                `gorm:"primaryKey" json:"id"`
	JobID          snowflake.ID                `gorm:"not null;index" json:"job_id"`
	ManufacturerID snowflake.ID                `gorm:"not null" json:"manufacturer_id"`
	QCScore        float64                     `gorm:"not null" json:"qc_score"`
	Status         QCStatus                    `gorm:"not null" json:"status"`
	Similarity     float64                     `gorm:"not null" json:"similarity"`
	EvidencePaths  datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"evidence_paths"`
	ModelVersion   string                      `gorm:"not null;default:''" json:"model_version"`
	CreatedAt      time.Time                   `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (QCRecord) TableName() string { return "qc_records" }
