package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, rec *ShippingRecord) error
	FindByJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) (*ShippingRecord, error)
}
