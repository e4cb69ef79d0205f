package service

import (
	"context"
	"math"

	"github.com/forgenet/forgenet/internal/forgeai"
	"github.com/forgenet/forgenet/internal/payestimate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	defaultHourlyRate  = 35.0
	overheadRate       = 0.15
	marginRate         = 0.20
	demandMultiplier   = 1.10
	rangeSpread        = 0.15
	unknownUnitCost    = 0.05
	fallbackModelLabel = "local-heuristic-v1"
)

// Per-unit material cost in dollars.
var unitCosts = map[string]float64{
	"6061-T6 Aluminum":    0.10,
	"7075 Aluminum":       0.12,
	"304 Stainless Steel": 0.18,
	"PLA":                 0.02,
	"ABS":                 0.025,
}

type Params struct {
	fx.In

	AI  *forgeai.Client
	Log *zap.Logger
}

type service struct {
	ai  *forgeai.Client
	log *zap.Logger
}

func New(p Params) domain.Service {
	return &service{ai: p.AI, log: p.Log}
}

func (s *service) Estimate(ctx context.Context, req domain.EstimateRequest) (domain.Estimate, error) {
	if req.Material == "" {
		return domain.Estimate{}, domain.ErrInvalidMaterial
	}
	if req.Quantity <= 0 {
		return domain.Estimate{}, domain.ErrInvalidQuantity
	}
	if req.EstimatedHours < 0 {
		return domain.Estimate{}, domain.ErrInvalidHours
	}

	if s.ai.Enabled() {
		resp, err := s.ai.EstimatePay(ctx, forgeai.PayRequest{
			Material:             req.Material,
			Quantity:             req.Quantity,
			ToleranceTier:        req.ToleranceTier,
			ComplexityScore:      req.ComplexityScore,
			EstimatedHours:       req.EstimatedHours,
			SetupHours:           req.SetupHours,
			DeadlineDays:         req.DeadlineDays,
			StandardDeliveryDays: req.StandardDeliveryDays,
			MarketRatePerHour:    req.MarketRatePerHour,
		})
		if err == nil {
			return domain.Estimate{
				SuggestedPay: resp.SuggestedPay,
				RangeLow:     resp.RangeLow,
				RangeHigh:    resp.RangeHigh,
				Breakdown: domain.Breakdown{
					Materials: resp.Breakdown.Materials,
					Labor:     resp.Breakdown.Labor,
					Overhead:  resp.Breakdown.Overhead,
					Margin:    resp.Breakdown.Margin,
				},
				ModelVersion: resp.ModelVersion,
			}, nil
		}
		s.log.Warn("pay estimation upstream failed, using local estimator", zap.Error(err))
	}

	return Fallback(req), nil
}

// Fallback computes the deterministic local estimate. Ranges derive from
// the unrounded suggested value so the two bounds do not drift with the
// rounding of the midpoint.
func Fallback(req domain.EstimateRequest) domain.Estimate {
	unit, ok := unitCosts[req.Material]
	if !ok {
		unit = unknownUnitCost
	}
	materials := unit * float64(req.Quantity)
	// The local formula prices labor at a fixed shop rate; the caller's
	// market rate only travels with delegated requests.
	labor := req.EstimatedHours * defaultHourlyRate
	overhead := overheadRate * labor
	margin := marginRate * (materials + labor + overhead)
	suggested := demandMultiplier * (materials + labor + overhead + margin)

	return domain.Estimate{
		SuggestedPay: round2(suggested),
		RangeLow:     round2(suggested * (1 - rangeSpread)),
		RangeHigh:    round2(suggested * (1 + rangeSpread)),
		Breakdown: domain.Breakdown{
			Materials: round2(materials),
			Labor:     round2(labor),
			Overhead:  round2(overhead),
			Margin:    round2(margin),
		},
		ModelVersion: fallbackModelLabel,
		Fallback:     true,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
