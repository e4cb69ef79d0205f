package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Rating struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	JobID          snowflake.ID `gorm:"not null;uniqueIndex:idx_job_client" json:"job_id"`
	ManufacturerID snowflake.ID `gorm:"not null;index" json:"manufacturer_id"`
	ClientID       snowflake.ID `gorm:"not null;uniqueIndex:idx_job_client" json:"client_id"`
	Rating         int          `gorm:"not null" json:"rating"`
	Comment        *string      `json:"comment,omitempty"`
	CreatedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
