package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ShippingRecord is keyed by job: re-shipping the same job overwrites
// the carrier and tracking fields instead of adding rows.
type ShippingRecord struct {
	JobID          snowflake.ID `gorm:"primaryKey" json:"job_id"`
	ManufacturerID snowflake.ID `gorm:"not null" json:"manufacturer_id"`
	Carrier        string       `gorm:"not null" json:"carrier"`
	TrackingNumber string       `gorm:"not null" json:"tracking_number"`
	ShippedAt      time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"shipped_at"`
}

func (ShippingRecord) TableName() string { return "shipping_records" }
