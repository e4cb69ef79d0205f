package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/rating/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, rating *domain.Rating) error {
	return db.WithContext(ctx).Create(rating).Error
}

func (r *repo) ListForManufacturer(ctx context.Context, db *gorm.DB, manufacturerID snowflake.ID) ([]*domain.Rating, error) {
	var ratings []*domain.Rating
	err := db.WithContext(ctx).
		Where("manufacturer_id = ?", manufacturerID).
		Order("created_at desc, id desc").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}
