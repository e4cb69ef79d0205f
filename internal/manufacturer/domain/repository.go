package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	Material      string
	ToleranceTier string
}

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, m *Manufacturer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Manufacturer, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Manufacturer, error)
	UpdateRatingStats(ctx context.Context, db *gorm.DB, id snowflake.ID, averageRating float64, totalRatings int) error
}
