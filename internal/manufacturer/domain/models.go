package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Manufacturer is the capability profile backing matching and display.
// The row shares its ID with the owning user.
type Manufacturer struct {
	ID                   snowflake.ID                 `gorm:"primaryKey" json:"id"`
	LocationState        string                       `gorm:"not null;default:''" json:"location_state"`
	LocationZip          string                       `gorm:"not null;default:''" json:"location_zip"`
	Equipment            datatypes.JSONMap            `gorm:"type:jsonb;not null;default:'{}'" json:"equipment"`
	Materials            datatypes.JSONSlice[string]  `gorm:"type:jsonb;not null;default:'[]'" json:"materials"`
	ToleranceTier        string                       `gorm:"not null;default:'medium'" json:"tolerance_tier"`
	CapacityScore        float64                      `gorm:"not null;default:0.5" json:"capacity_score"`
	AverageRating        float64                      `gorm:"not null;default:0" json:"average_rating"`
	TotalRatingsReceived int                          `gorm:"not null;default:0" json:"total_ratings_received"`
	TotalJobsCompleted   int                          `gorm:"not null;default:0" json:"total_jobs_completed"`
	CreatedAt            time.Time                    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
