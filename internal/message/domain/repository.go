package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, msg *Message) error
	ListForJob(ctx context.Context, db *gorm.DB, jobID snowflake.ID) ([]*Message, error)
}
