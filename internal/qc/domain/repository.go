package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, rec *QCRecord) error
	ListForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) ([]*QCRecord, error)
}
