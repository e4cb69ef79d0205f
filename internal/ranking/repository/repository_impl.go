package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/ranking/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) ReplaceForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID, recs []*domain.Recommendation) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("job_id = ?", jobID).Delete(&domain.Recommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return tx.Create(recs).Error
	})
}

func (r *repo) ListForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) ([]*domain.Recommendation, error) {
	var recs []*domain.Recommendation
	err := db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("rank_score desc, manufacturer_id asc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
