package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/qc/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rec *domain.QCRecord) error {
	return db.WithContext(ctx).Create(rec).Error
}

func (r *repo) ListForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) ([]*domain.QCRecord, error) {
	var recs []*domain.QCRecord
	err := db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at desc, id desc").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}
