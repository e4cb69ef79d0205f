package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/shipping/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, rec *domain.ShippingRecord) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"carrier", "tracking_number", "shipped_at",
			}),
		}).
		Create(rec).Error
}

func (r *repo) FindByJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) (*domain.ShippingRecord, error) {
	var rec domain.ShippingRecord
	err := db.WithContext(ctx).First(&rec, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
