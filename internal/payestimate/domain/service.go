package domain

import (
	"context"
	"errors"
)

type EstimateRequest struct {
	Material             string  `json:"material"`
	Quantity             int     `json:"quantity"`
	ToleranceTier        string  `json:"tolerance_tier"`
	ComplexityScore      float64 `json:"complexity_score"`
	EstimatedHours       float64 `json:"estimated_hours"`
	SetupHours           float64 `json:"setup_hours"`
	DeadlineDays         int     `json:"deadline_days"`
	StandardDeliveryDays int     `json:"standard_delivery_days"`
	MarketRatePerHour    float64 `json:"market_rate_per_hour"`
}

type Breakdown struct {
	Materials float64 `json:"materials"`
	Labor     float64 `json:"labor"`
	Overhead  float64 `json:"overhead"`
	Margin    float64 `json:"margin"`
}

type Estimate struct {
	SuggestedPay float64   `json:"suggested_pay"`
	RangeLow     float64   `json:"range_low"`
	RangeHigh    float64   `json:"range_high"`
	Breakdown    Breakdown `json:"breakdown"`
	ModelVersion string    `json:"model_version"`
	Fallback     bool      `json:"fallback"`
}

type Service interface {
	// Estimate prices a job, delegating upstream when configured and
	// otherwise using the deterministic local formula.
	Estimate(context.Context, EstimateRequest) (Estimate, error)
}

var (
	ErrInvalidMaterial = errors.New("invalid_material")
	ErrInvalidQuantity = errors.New("invalid_quantity")
	ErrInvalidHours    = errors.New("invalid_estimated_hours")
)
