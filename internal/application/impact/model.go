package impact

import (
	"math"

	"agrowaste-backend/internal/domain"
	"agrowaste-backend/internal/pkg/numeric"
)

const (
	// DefaultTreeAbsorptionKg is the CO2 one mature tree absorbs per year, in kg.
	DefaultTreeAbsorptionKg = 20.0
	// DefaultCarbonTargetKg is the platform-wide CO2 reduction goal, in kg.
	DefaultCarbonTargetKg = 100000.0
)

// Factors are the per-kg effects of diverting one waste type from burning.
type Factors struct {
	CO2PreventedPerKg float64 `json:"co2PreventedPerKg"` // kg CO2
	WaterSavedPerKg   float64 `json:"waterSavedPerKg"`   // liters
	SoilHealthScore   int     `json:"soilHealthScore"`   // 1-10, not scaled by quantity
}

// FactorTable maps a waste type to its factors. It must contain domain.WasteOther.
type FactorTable map[domain.WasteType]Factors

// DefaultFactors returns a fresh copy of the standard factor table.
func DefaultFactors() FactorTable {
	return FactorTable{
		domain.WasteStraw:  {CO2PreventedPerKg: 1.5, WaterSavedPerKg: 0.5, SoilHealthScore: 8},
		domain.WasteHusk:   {CO2PreventedPerKg: 1.2, WaterSavedPerKg: 0.3, SoilHealthScore: 7},
		domain.WasteLeaves: {CO2PreventedPerKg: 0.8, WaterSavedPerKg: 0.2, SoilHealthScore: 6},
		domain.WasteStalks: {CO2PreventedPerKg: 1.0, WaterSavedPerKg: 0.4, SoilHealthScore: 7},
		domain.WasteOther:  {CO2PreventedPerKg: 0.5, WaterSavedPerKg: 0.2, SoilHealthScore: 5},
	}
}

// Lookup returns the factors for t, falling back to the "other" row and then to
// the built-in "other" row when the table lacks one.
func (ft FactorTable) Lookup(t domain.WasteType) Factors {
	if f, ok := ft[t]; ok {
		return f
	}
	if f, ok := ft[domain.WasteOther]; ok {
		return f
	}
	return DefaultFactors()[domain.WasteOther]
}

// Impact is the environmental effect of a quantity of one waste type.
type Impact struct {
	CO2Prevented    float64 `json:"co2Prevented"`
	WaterSaved      float64 `json:"waterSaved"`
	SoilHealthScore int     `json:"soilHealthScore"`
}

// Progress tracks cumulative CO2 prevented against the target.
type Progress struct {
	Current            float64 `json:"current"`
	Target             float64 `json:"target"`
	PercentageAchieved float64 `json:"percentageAchieved"`
}

// Model holds the factor table and the two policy constants. It has no hidden
// state; a zero Model behaves like DefaultModel except for the constants.
type Model struct {
	Factors          FactorTable
	TreeAbsorptionKg float64
	CarbonTargetKg   float64
}

func DefaultModel() Model {
	return Model{
		Factors:          DefaultFactors(),
		TreeAbsorptionKg: DefaultTreeAbsorptionKg,
		CarbonTargetKg:   DefaultCarbonTargetKg,
	}
}

// Compute returns the impact of quantity kg of wasteType. Negative and NaN
// quantities are clamped to zero.
func (m Model) Compute(wasteType domain.WasteType, quantity float64) Impact {
	if math.IsNaN(quantity) || quantity < 0 {
		quantity = 0
	}
	f := m.Factors.Lookup(wasteType.Canonical())
	return Impact{
		CO2Prevented:    f.CO2PreventedPerKg * quantity,
		WaterSaved:      f.WaterSavedPerKg * quantity,
		SoilHealthScore: f.SoilHealthScore,
	}
}

// TreesEquivalent is the number of trees that absorb totalCO2 kg in a year.
func (m Model) TreesEquivalent(totalCO2 float64) int {
	if m.TreeAbsorptionKg <= 0 || totalCO2 <= 0 {
		return 0
	}
	return int(math.Floor(totalCO2 / m.TreeAbsorptionKg))
}

func (m Model) Progress(current float64) Progress {
	return Progress{
		Current:            current,
		Target:             m.CarbonTargetKg,
		PercentageAchieved: numeric.Percentage(current, m.CarbonTargetKg),
	}
}
