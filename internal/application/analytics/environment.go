package analytics

import (
	"context"
	"sort"

	"agrowaste-backend/internal/application/impact"
	"agrowaste-backend/internal/application/listings"
	"agrowaste-backend/internal/domain"
)

type ImpactSummary struct {
	TotalWasteManaged float64 `json:"totalWasteManaged"`
	TotalLocations    int     `json:"totalLocations"`
	TotalCarbonImpact float64 `json:"totalCarbonImpact"`
	TotalWaterImpact  float64 `json:"totalWaterImpact"`
}

type TypeImpact struct {
	WasteType     domain.WasteType `json:"wasteType"`
	TotalQuantity float64          `json:"totalQuantity"`
	Impact        impact.Impact    `json:"impact"`
}

type OffsetEquivalent struct {
	Trees               int     `json:"trees"`
	KgCO2PerTreePerYear float64 `json:"kgCO2PerTreePerYear"`
}

type EnvironmentalImpact struct {
	Summary                 ImpactSummary    `json:"summary"`
	ImpactByType            []TypeImpact     `json:"impactByType"`
	OffsetEquivalent        OffsetEquivalent `json:"offsetEquivalent"`
	CarbonReductionProgress impact.Progress  `json:"carbonReductionProgress"`
}

// EnvironmentalImpact applies the impact model to the summed quantity of each
// waste type. TotalLocations counts distinct districts across all types.
func (s *Service) EnvironmentalImpact(ctx context.Context) (*EnvironmentalImpact, error) {
	return run(ctx, s, "environmental_impact", "all", func(ctx context.Context) (*EnvironmentalImpact, error) {
		ls, err := s.load(ctx, "environmental_impact", listings.Query{})
		if err != nil {
			return nil, err
		}
		return s.environmentalImpact(ls), nil
	})
}

func (s *Service) environmentalImpact(ls []domain.Listing) *EnvironmentalImpact {
	keys, groups := groupBy(ls, func(l domain.Listing) domain.WasteType { return l.WasteType.Canonical() })
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	districts := map[string]struct{}{}
	out := &EnvironmentalImpact{ImpactByType: make([]TypeImpact, 0, len(keys))}
	for _, k := range keys {
		g := groups[k]
		for _, l := range g {
			if l.Location.District != "" {
				districts[l.Location.District] = struct{}{}
			}
		}
		qty := sumBy(g, quantity)
		imp := s.Impact.Compute(k, qty)
		out.ImpactByType = append(out.ImpactByType, TypeImpact{WasteType: k, TotalQuantity: qty, Impact: imp})
		out.Summary.TotalWasteManaged += qty
		out.Summary.TotalCarbonImpact += imp.CO2Prevented
		out.Summary.TotalWaterImpact += imp.WaterSaved
	}
	out.Summary.TotalLocations = len(districts)
	out.OffsetEquivalent = OffsetEquivalent{
		Trees:               s.Impact.TreesEquivalent(out.Summary.TotalCarbonImpact),
		KgCO2PerTreePerYear: s.Impact.TreeAbsorptionKg,
	}
	out.CarbonReductionProgress = s.Impact.Progress(out.Summary.TotalCarbonImpact)
	return out
}
