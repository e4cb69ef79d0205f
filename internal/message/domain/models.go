package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Message is one entry in a job's conversation thread. Rows are
// append-only; the recipient is always derived server-side.
type Message struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	JobID       snowflake.ID `gorm:"not null;index" json:"job_id"`
	SenderID    snowflake.ID `gorm:"not null" json:"sender_id"`
	RecipientID snowflake.ID `gorm:"not null" json:"recipient_id"`
	Body        string       `gorm:"not null" json:"body"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Message) TableName() string { return "job_messages" }
