package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// ReplaceForJob swaps the stored recommendations for a job.
	ReplaceForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID, recs []*Recommendation) error
	ListForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) ([]*Recommendation, error)
}
