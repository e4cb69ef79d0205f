package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type ListFilter struct {
	// PartyID limits results to disputes where the user is either side.
	PartyID snowflake.ID
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, d *Dispute) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Dispute, error)
	Update(ctx context.Context, db *gorm.DB, d *Dispute) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*Dispute, error)
}
