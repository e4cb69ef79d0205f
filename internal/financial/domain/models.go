package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusAuthorized TransactionStatus = "authorized"
	StatusSettled    TransactionStatus = "settled"
	StatusVoid       TransactionStatus = "void"
)

type TransactionKind string

const (
	KindJobEscrow TransactionKind = "job_escrow"
	KindPayout    TransactionKind = "payout"
)

// Transaction is one row of the append-then-transition payment ledger.
// Escrow rows are created pending at assignment and authorized on shipment.
type Transaction struct {
	ID             snowflake.ID      `gorm:"primaryKey" json:"id"`
	JobID          snowflake.ID      `gorm:"not null;index" json:"job_id"`
	ClientID       snowflake.ID      `gorm:"not null;index" json:"client_id"`
	ManufacturerID snowflake.ID      `gorm:"not null;index" json:"manufacturer_id"`
	AmountCents    int64             `gorm:"not null" json:"amount_cents"`
	Currency       string            `gorm:"not null;default:'USD'" json:"currency"`
	Kind           TransactionKind   `gorm:"not null" json:"kind"`
	Status         TransactionStatus `gorm:"not null;default:'pending'" json:"status"`
	Description    string            `gorm:"not null;default:''" json:"description"`
	CreatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Transaction) TableName() string { return "financial_transactions" }
