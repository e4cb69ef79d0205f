package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/payestimate/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, est *domain.PayEstimate) error {
	est.UpdatedAt = time.Now().UTC()
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "job_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"suggested_pay", "range_low", "range_high", "breakdown",
				"model_version", "fallback", "updated_at",
			}),
		}).
		Create(est).Error
}

func (r *repo) FindByJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) (*domain.PayEstimate, error) {
	var est domain.PayEstimate
	err := db.WithContext(ctx).First(&est, "job_id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &est, nil
}
