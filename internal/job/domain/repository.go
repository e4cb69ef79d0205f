package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/forgenet/forgenet/pkg/db/pagination"
	"gorm.io/gorm"
)

type ListJobsFilter struct {
	ClientID       snowflake.ID
	ManufacturerID snowflake.ID
	Status         Status
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, job *Job) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Job, error)
	List(ctx context.Context, db *gorm.DB, filter ListJobsFilter, page pagination.Pagination) ([]*Job, error)

	// ListActiveForManufacturer returns the manufacturer's jobs still in
	// flight, soonest deadline first.
	ListActiveForManufacturer(ctx context.Context, db *gorm.DB, manufacturerID snowflake.ID) ([]*Job, error)

	// UpdateStatus performs the single conditional status write: it only
	// succeeds when the row still carries the expected current status.
	// Returns false when the row was concurrently moved (or is missing).
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, from, to Status) (bool, error)
}
