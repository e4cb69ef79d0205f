package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/dispute/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, d *domain.Dispute) error {
	return db.WithContext(ctx).Create(d).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Dispute, error) {
	var d domain.Dispute
	err := db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, d *domain.Dispute) error {
	return db.WithContext(ctx).Save(d).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Dispute, error) {
	var ds []*domain.Dispute
	stmt := db.WithContext(ctx).Model(&domain.Dispute{})
	if filter.PartyID != 0 {
		stmt = stmt.Where("client_id = ? OR manufacturer_id = ?", filter.PartyID, filter.PartyID)
	}
	err := stmt.Order("created_at desc, id desc").Find(&ds).Error
	if err != nil {
		return nil, err
	}
	return ds, nil
}
