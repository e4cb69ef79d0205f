package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Upsert writes the estimate for a job, replacing any previous row.
	Upsert(ctx context.Context, db *gorm.DB, est *PayEstimate) error
	FindByJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) (*PayEstimate, error)
}
