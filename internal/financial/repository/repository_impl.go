package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/financial/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, txn *domain.Transaction) error {
	return db.WithContext(ctx).Create(txn).Error
}

func (r *repo) AuthorizeForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Where("job_id = ? AND status = ?", jobID, domain.StatusPending).
		Updates(map[string]any{
			"status":     domain.StatusAuthorized,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repo) ListForUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*domain.Transaction, error) {
	var txns []*domain.Transaction
	err := db.WithContext(ctx).
		Where("client_id = ? OR manufacturer_id = ?", userID, userID).
		Order("created_at desc, id desc").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
