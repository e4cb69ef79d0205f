package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, txn *Transaction) error

	// AuthorizeForJob moves the pending escrow rows for a job to authorized.
	// Returns the number of rows transitioned.
	AuthorizeForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) (int64, error)

	// ListForUser returns transactions where the user is either side.
	ListForUser(ctx context.Context, db *gorm.DB, userID snowflake.ID) ([]*Transaction, error)
}
