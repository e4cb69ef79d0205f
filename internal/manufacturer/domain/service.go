package domain

import (
	"context"
	"errors"
)

type UpsertProfileRequest struct {
	LocationState string
	LocationZip   string
	Equipment     map[string]any
	Materials     []string
	ToleranceTier string
	CapacityScore float64
}

type ListManufacturersRequest struct {
	Material      string
	ToleranceTier string
}

type Service interface {
	UpsertProfile(context.Context, UpsertProfileRequest) (Manufacturer, error)
	GetByID(ctx context.Context, id string) (Manufacturer, error)
	List(context.Context, ListManufacturersRequest) ([]Manufacturer, error)
}

var (
	ErrNotFound         = errors.New("manufacturer_not_found")
	ErrInvalidID        = errors.New("invalid_id")
	ErrInvalidTolerance = errors.New("invalid_tolerance_tier")
	ErrNotManufacturer  = errors.New("not_a_manufacturer")
)
