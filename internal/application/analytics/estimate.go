package analytics

import (
	"context"
	"time"

	"agrowaste-backend/internal/pkg/apperr"
	"agrowaste-backend/internal/pkg/validation"

	"github.com/shopspring/decimal"
)

var (
	yieldPerAcre   = decimal.RequireFromString("0.4")
	wasteShare     = decimal.RequireFromString("0.1")
	pricePerTonINR = decimal.NewFromInt(20000)
)

// EstimateInput describes a plot. LandArea is in acres.
type EstimateInput struct {
	Location      string  `json:"location" validate:"required,oneof=Durg Mumbai Delhi Bangalore Chennai Nashik"`
	LandArea      float64 `json:"landArea" validate:"gt=0,lte=1000000"`
	SoilCondition string  `json:"soilCondition" validate:"required,oneof=sandy clay loamy"`
	CropType      string  `json:"cropType" validate:"required,oneof=rice wheat maize cotton"`
}

// WasteEstimate is in tons, profit in rupees.
type WasteEstimate struct {
	PredictedYield  float64 `json:"predictedYield"`
	PredictedWaste  float64 `json:"predictedWaste"`
	EstimatedProfit float64 `json:"estimatedProfit"`
}

// EstimateWaste projects yield, crop residue and revenue for a plot. Yield is
// 0.4 t per acre, waste a tenth of yield, profit 20000 per ton of yield. Every
// figure is computed from the unrounded yield and rounded to two decimals.
func (s *Service) EstimateWaste(_ context.Context, in EstimateInput) (*WasteEstimate, error) {
	start := time.Now()
	if err := validation.Struct(in); err != nil {
		return nil, s.reject("estimate", apperr.InvalidArgument("%s", err.Error()))
	}
	yield := decimal.NewFromFloat(in.LandArea).Mul(yieldPerAcre)
	out := &WasteEstimate{
		PredictedYield:  yield.Round(2).InexactFloat64(),
		PredictedWaste:  yield.Mul(wasteShare).Round(2).InexactFloat64(),
		EstimatedProfit: yield.Mul(pricePerTonINR).Round(2).InexactFloat64(),
	}
	s.Metrics.Observe("estimate", start, nil)
	return out, nil
}
