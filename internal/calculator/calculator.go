package calculator

import "math"

const (
	daysPerYear               = 365
	defaultConstantLightHours = 20
	wattsPerKilowatt          = 1000
)

// SafeDivide returns n/d, or 0 when d is zero or the quotient is not finite.
// Every ratio in a CalculationResult goes through it.
func SafeDivide(n, d float64) float64 {
	if d == 0 {
		return 0
	}
	q := n / d
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return 0
	}
	return q
}

// EnergyKWh is the lighting consumption of one cycle. Drying and curing run
// without lights.
func EnergyKWh(cycle CycleParams) float64 {
	vegHours, flowerHours := cycle.VegLightHours, cycle.FlowerLightHours
	if cycle.ConstantLight {
		if vegHours == 0 {
			vegHours = defaultConstantLightHours
		}
		flowerHours = vegHours
	}
	kw := cycle.Wattage / wattsPerKilowatt
	return kw*vegHours*float64(cycle.VegetativeDays) + kw*flowerHours*float64(cycle.FloweringDays)
}

// CalculateResults never fails. Negative inputs are not rejected here;
// callers validate before invoking.
func CalculateResults(setup SetupParams, cycle CycleParams, market MarketParams) CalculationResult {
	investment := setup.LightingEquipmentCost + setup.TentStructureCost + setup.VentilationCost + setup.OtherEquipmentCost

	kwh := EnergyKWh(cycle)
	var costs CostBreakdown
	costs[CostEnergy] = kwh * market.PricePerKWh
	costs[CostSeeds] = market.SeedCost
	costs[CostSubstrate] = market.SubstrateCost
	costs[CostNutrients] = market.NutrientCost
	costs[CostOther] = market.MiscOperatingCost
	operating := costs.Total()

	production := cycle.TotalProduction()
	revenue := production * market.SalePricePerGram
	profit := revenue - operating
	var informalRevenue, informalProfit float64
	if market.InformalPricePerGram > 0 {
		informalRevenue = production * market.InformalPricePerGram
		informalProfit = informalRevenue - operating
	}

	duration := cycle.TotalDays()
	cyclesPerYear := 0
	if duration > 0 {
		cyclesPerYear = daysPerYear / duration
	}

	var payback float64
	if profit > 0 {
		payback = SafeDivide(investment, profit)
	}

	return CalculationResult{
		TotalInvestment:      investment,
		TotalOperatingCost:   operating,
		GrossRevenue:         revenue,
		NetProfit:            profit,
		CostPerGram:          SafeDivide(operating, production),
		GramsPerWatt:         SafeDivide(production, cycle.Wattage),
		GramsPerM2:           SafeDivide(production, setup.AreaM2),
		PaybackCycles:        payback,
		AnnualROI:            SafeDivide(float64(cyclesPerYear)*profit, investment) * 100,
		TotalCycleDays:       duration,
		TotalProductionG:     production,
		EnergyKWh:            kwh,
		CyclesPerYear:        cyclesPerYear,
		InformalGrossRevenue: informalRevenue,
		InformalNetProfit:    informalProfit,
		OperatingCosts:       costs,
	}
}
