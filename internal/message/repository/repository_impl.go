package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/message/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, msg *domain.Message) error {
	return db.WithContext(ctx).Create(msg).Error
}

func (r *repo) ListForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}
