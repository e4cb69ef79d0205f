package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type DisputeStatus string

const (
	StatusOpen     DisputeStatus = "open"
	StatusResolved DisputeStatus = "resolved"
)

type Dispute struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	JobID          snowflake.ID  `gorm:"not null;index" json:"job_id"`
	ClientID       snowflake.ID  `gorm:"not null" json:"client_id"`
	ManufacturerID snowflake.ID  `gorm:"not null" json:"manufacturer_id"`
	Reason         string        `gorm:"not null" json:"reason"`
	Status         DisputeStatus `gorm:"not null;default:'open'" json:"status"`
	Resolution     *string       `json:"resolution,omitempty"`
	ResolvedBy     *snowflake.ID `json:"resolved_by,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	ResolvedAt     *time.Time    `json:"resolved_at,omitempty"`
}
