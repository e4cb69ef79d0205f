package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Status string

const (
	StatusDraft        Status = "draft"
	StatusPosted       Status = "posted"
	StatusAssigned     Status = "assigned"
	StatusInProduction Status = "in_production"
	StatusQCPending    Status = "qc_pending"
	StatusQCDone       Status = "qc_done"
	StatusAccepted     Status = "accepted"
	StatusDisputed     Status = "disputed"
	StatusResolved     Status = "resolved"
)

func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok || s == StatusResolved
}

type ToleranceTier string

const (
	TierLow    ToleranceTier = "low"
	TierMedium ToleranceTier = "medium"
	TierHigh   ToleranceTier = "high"
)

func (t ToleranceTier) Valid() bool {
	switch t {
	case TierLow, TierMedium, TierHigh:
		return true
	default:
		return false
	}
}

// TierFromThou maps a dimensional tolerance in thousandths of an inch to
// the coarse tier used for matching and QC thresholds.
func TierFromThou(thou float64) ToleranceTier {
	switch {
	case thou <= 0.005:
		return TierHigh
	case thou <= 0.01:
		return TierMedium
	default:
		return TierLow
	}
}

type Job struct {
	ID                     snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClientID               snowflake.ID  `gorm:"not null;index" json:"client_id"`
	Title                  string        `gorm:"not null" json:"title"`
	Description            string        `gorm:"not null;default:''" json:"description"`
	Material               string        `gorm:"not null" json:"material"`
	Quantity               int           `gorm:"not null" json:"quantity"`
	ToleranceTier          ToleranceTier `gorm:"not null;default:'medium'" json:"tolerance_tier"`
	Deadline               time.Time     `gorm:"not null" json:"deadline"`
	Status                 Status        `gorm:"not null;default:'draft';index" json:"status"`
	SelectedManufacturerID *snowflake.ID `gorm:"index" json:"selected_manufacturer_id,omitempty"`
	STLPath                *string       `json:"stl_path,omitempty"`
	CreatedAt              time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt              time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AssignedTo reports whether the job is assigned to the given manufacturer.
func (j *Job) AssignedTo(id snowflake.ID) bool {
	return j.SelectedManufacturerID != nil && *j.SelectedManufacturerID == id
}
