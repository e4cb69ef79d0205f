package domain

import (
	"context"
	"errors"
)

type ShipRequest struct {
	JobID          string
	Carrier        string
	TrackingNumber string
}

type Service interface {
	// Ship records the shipment, moves the job to accepted, and
	// authorizes the pending escrow, all in one transaction.
	Ship(context.Context, ShipRequest) error

	GetForJob(ctx context.Context, jobID string) (ShippingRecord, error)
}

var (
	ErrInvalidCarrier  = errors.New("invalid_carrier")
	ErrInvalidTracking = errors.New("invalid_tracking_number")
	ErrNotFound        = errors.New("shipping_record_not_found")
)
