package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/job/domain"
	"github.com/forgenet/forgenet/pkg/db/pagination"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, job *domain.Job) error {
	return db.WithContext(ctx).Create(job).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Job, error) {
	var job domain.Job
	err := db.WithContext(ctx).First(&job, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repo) ListActiveForManufacturer(ctx context.Context, db *gorm.DB, manufacturerID snowflake.ID) ([]*domain.Job, error) {
	active := []domain.Status{domain.StatusAssigned, domain.StatusInProduction, domain.StatusQCPending}

	var jobs []*domain.Job
	err := db.WithContext(ctx).
		Where("selected_manufacturer_id = ?", manufacturerID).
		Where("status IN ?", active).
		Order("deadline asc").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListJobsFilter, page pagination.Pagination) ([]*domain.Job, error) {
	var jobs []*domain.Job
	stmt := db.WithContext(ctx).Model(&domain.Job{})

	if filter.ClientID != 0 {
		stmt = stmt.Where("client_id = ?", filter.ClientID)
	}
	if filter.ManufacturerID != 0 {
		stmt = stmt.Where("selected_manufacturer_id = ?", filter.ManufacturerID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err == nil && cursor != nil && cursor.CreatedAt != "" {
			if createdAt, parseErr := time.Parse(time.RFC3339, cursor.CreatedAt); parseErr == nil {
				stmt = stmt.Where("created_at < ?", createdAt)
			}
		}
	}

	limit := page.PageSize
	if limit <= 0 {
		limit = 50
	}

	err := stmt.
		Order("created_at desc, id desc").
		Limit(limit + 1).
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to domain.Status) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Job{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
