package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/internal/manufacturer/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, m *domain.Manufacturer) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"location_state", "location_zip", "equipment", "materials",
				"tolerance_tier", "capacity_score",
			}),
		}).
		Create(m).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Manufacturer, error) {
	var m domain.Manufacturer
	err := db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListFilter) ([]*domain.Manufacturer, error) {
	var ms []*domain.Manufacturer
	stmt := db.WithContext(ctx).Model(&domain.Manufacturer{})
	if filter.ToleranceTier != "" {
		stmt = stmt.Where("tolerance_tier = ?", filter.ToleranceTier)
	}
	err := stmt.Order("average_rating desc, id asc").Find(&ms).Error
	if err != nil {
		return nil, err
	}
	if filter.Material == "" {
		return ms, nil
	}
	// Material filtering happens in memory: the column is a JSON array and
	// the service stays portable across the supported dialects.
	filtered := ms[:0]
	for _, m := range ms {
		for _, mat := range m.Materials {
			if mat == filter.Material {
				filtered = append(filtered, m)
				break
			}
		}
	}
	return filtered, nil
}

func (r *repo) UpdateRatingStats(ctx context.Context, db *gorm.DB, id snowflake.ID, averageRating float64, totalRatings int) error {
	return db.WithContext(ctx).
		Model(&domain.Manufacturer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"average_rating":         averageRating,
			"total_ratings_received": totalRatings,
		}).Error
}
