package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, r *Rating) error
	ListForManufacturer(ctx context.Context, db *gorm.DB, manufacturerID snowflake.ID) ([]*Rating, error)
}
