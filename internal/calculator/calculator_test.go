package calculator

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

func baseSetup() SetupParams {
	return SetupParams{
		AreaM2:                2.25,
		LightingEquipmentCost: 2000,
		TentStructureCost:     1500,
		VentilationCost:       800,
		OtherEquipmentCost:    500,
	}
}

func baseCycle() CycleParams {
	return CycleParams{
		Wattage:          480,
		PlantCount:       6,
		YieldPerPlantG:   80,
		VegetativeDays:   60,
		VegLightHours:    18,
		FloweringDays:    70,
		FlowerLightHours: 12,
		DryingCuringDays: 20,
	}
}

func baseMarket() MarketParams {
	return MarketParams{
		PricePerKWh:       0.95,
		SeedCost:          500,
		SubstrateCost:     120,
		NutrientCost:      350,
		MiscOperatingCost: 100,
		SalePricePerGram:  45,
	}
}

// ============================================================================
// REFERENCE SCENARIOS
// ============================================================================

func TestCalculateResults_ReferenceGrow(t *testing.T) {
	r := CalculateResults(baseSetup(), baseCycle(), baseMarket())

	assert.Equal(t, 4800.0, r.TotalInvestment)
	assert.Equal(t, 150, r.TotalCycleDays)
	assert.Equal(t, 480.0, r.TotalProductionG)
	assert.Equal(t, 21600.0, r.GrossRevenue)

	expectedEnergy := (480*18*60*0.95 + 480*12*70*0.95) / 1000
	assert.InDelta(t, expectedEnergy, r.OperatingCosts.Get(CostEnergy), 1e-9)
	assert.InDelta(t, 875.52, r.OperatingCosts.Get(CostEnergy), 1e-9)
	assert.InDelta(t, 921.6, r.EnergyKWh, 1e-9)

	assert.InDelta(t, 875.52+500+120+350+100, r.TotalOperatingCost, 1e-9)
	assert.Equal(t, r.GrossRevenue-r.TotalOperatingCost, r.NetProfit)
	assert.InDelta(t, r.TotalOperatingCost/480, r.CostPerGram, 1e-12)
	assert.Equal(t, 1.0, r.GramsPerWatt)
	assert.InDelta(t, 480/2.25, r.GramsPerM2, 1e-12)
	assert.InDelta(t, 4800/r.NetProfit, r.PaybackCycles, 1e-12)

	assert.Equal(t, 2, r.CyclesPerYear)
	assert.InDelta(t, 2*r.NetProfit/4800*100, r.AnnualROI, 1e-9)
}

func TestCalculateResults_ZeroInvestment(t *testing.T) {
	setup := baseSetup()
	setup.LightingEquipmentCost = 0
	setup.TentStructureCost = 0
	setup.VentilationCost = 0
	setup.OtherEquipmentCost = 0

	r := CalculateResults(setup, baseCycle(), baseMarket())

	assert.Equal(t, 0.0, r.TotalInvestment)
	assert.Equal(t, 0.0, r.PaybackCycles)
	assert.Equal(t, 0.0, r.AnnualROI)
}

func TestCalculateResults_ZeroProduction(t *testing.T) {
	cycle := baseCycle()
	cycle.PlantCount = 0
	cycle.YieldPerPlantG = 0

	r := CalculateResults(baseSetup(), cycle, baseMarket())

	assert.Equal(t, 0.0, r.GrossRevenue)
	assert.Equal(t, 0.0, r.CostPerGram)
	assert.Equal(t, 0.0, r.GramsPerWatt)
	assert.Less(t, r.NetProfit, 0.0)
	assert.Equal(t, 0.0, r.PaybackCycles, "non-positive profit never pays back")
}

func TestCalculateResults_EnergyScalesWithPrice(t *testing.T) {
	market := baseMarket()
	base := CalculateResults(baseSetup(), baseCycle(), market)

	market.PricePerKWh = 1.90
	doubled := CalculateResults(baseSetup(), baseCycle(), market)

	assert.Equal(t, 2*base.OperatingCosts.Get(CostEnergy), doubled.OperatingCosts.Get(CostEnergy))
	assert.Equal(t, base.EnergyKWh, doubled.EnergyKWh)
}

// ============================================================================
// PROPERTIES
// ============================================================================

func TestCalculateResults_Invariants(t *testing.T) {
	setups := []SetupParams{baseSetup(), {AreaM2: 0.1}, {AreaM2: 1000, LightingEquipmentCost: 99999.99, TentStructureCost: 0.01}}
	cycles := []CycleParams{
		baseCycle(),
		{Wattage: 1, PlantCount: 1, YieldPerPlantG: 1, VegetativeDays: 1, FloweringDays: 1, DryingCuringDays: 1},
		{Wattage: 300, PlantCount: 4, YieldPerPlantG: 55.5, VegetativeDays: 25, VegLightHours: 20, FloweringDays: 45, DryingCuringDays: 15, ConstantLight: true},
	}
	markets := []MarketParams{baseMarket(), {}, {PricePerKWh: 10, SalePricePerGram: 1000, InformalPricePerGram: 12}}

	for _, s := range setups {
		for _, c := range cycles {
			for _, m := range markets {
				r := CalculateResults(s, c, m)

				assert.Equal(t, s.LightingEquipmentCost+s.TentStructureCost+s.VentilationCost+s.OtherEquipmentCost, r.TotalInvestment)
				assert.Equal(t, c.VegetativeDays+c.FloweringDays+c.DryingCuringDays, r.TotalCycleDays)
				assert.Equal(t, r.GrossRevenue-r.TotalOperatingCost, r.NetProfit)
				assert.Equal(t, r.OperatingCosts.Total(), r.TotalOperatingCost)

				for _, v := range []float64{r.CostPerGram, r.GramsPerWatt, r.GramsPerM2, r.PaybackCycles, r.AnnualROI} {
					assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
				}
			}
		}
	}
}

func TestCalculateResults_ConstantLight(t *testing.T) {
	cycle := CycleParams{Wattage: 1000, VegetativeDays: 10, FloweringDays: 10, VegLightHours: 0, FlowerLightHours: 12, ConstantLight: true}
	assert.Equal(t, 400.0, EnergyKWh(cycle), "zero hours falls back to 20h for both phases")

	cycle.VegLightHours = 18
	assert.Equal(t, 360.0, EnergyKWh(cycle))

	cycle.ConstantLight = false
	assert.Equal(t, 300.0, EnergyKWh(cycle))
}

func TestCalculateResults_InformalMarket(t *testing.T) {
	market := baseMarket()
	r := CalculateResults(baseSetup(), baseCycle(), market)
	assert.Equal(t, 0.0, r.InformalGrossRevenue)
	assert.Equal(t, 0.0, r.InformalNetProfit)

	market.InformalPricePerGram = 20
	r = CalculateResults(baseSetup(), baseCycle(), market)
	assert.Equal(t, 9600.0, r.InformalGrossRevenue)
	assert.Equal(t, 9600.0-r.TotalOperatingCost, r.InformalNetProfit)
}

func TestSafeDivide(t *testing.T) {
	assert.Equal(t, 0.0, SafeDivide(10, 0))
	assert.Equal(t, 0.0, SafeDivide(0, 0))
	assert.Equal(t, 0.0, SafeDivide(math.Inf(1), 2))
	assert.Equal(t, 2.5, SafeDivide(5, 2))
	assert.Equal(t, -2.5, SafeDivide(-5, 2))
}

// ============================================================================
// COST BREAKDOWN
// ============================================================================

func TestCostBreakdown_JSONKeepsCategoryOrder(t *testing.T) {
	b := CostBreakdown{875.5, 500, 120, 350, 100}

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t,
		`{"Energia Elétrica":875.5,"Sementes/Clones":500,"Substrato":120,"Nutrientes":350,"Outros Custos":100}`,
		string(data))

	var back CostBreakdown
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, b, back)
}

func TestCalculationResult_JSONNestsBreakdown(t *testing.T) {
	r := CalculateResults(baseSetup(), baseCycle(), baseMarket())

	data, err := json.Marshal(r)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	breakdown, ok := decoded["detalhe_custos_operacionais"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, breakdown, 5)
	assert.Equal(t, 4800.0, decoded["custo_total_investimento"])
}

func TestCostBreakdown_RejectsUnknownCategory(t *testing.T) {
	var b CostBreakdown
	err := json.Unmarshal([]byte(`{"Aluguel": 10}`), &b)
	assert.Error(t, err)
}

func TestCostCategories(t *testing.T) {
	labels := []string{}
	for _, c := range CostCategories() {
		labels = append(labels, c.String())
	}
	assert.Equal(t, []string{"Energia Elétrica", "Sementes/Clones", "Substrato", "Nutrientes", "Outros Custos"}, labels)
	assert.Equal(t, "CostCategory(9)", CostCategory(9).String())
}
