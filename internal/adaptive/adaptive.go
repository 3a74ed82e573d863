package adaptive

import (
	"cultivation-service/internal/calculator"
	"cultivation-service/internal/phase"
)

// CycleParams is a cycle whose durations come from the phase engine or from
// a genetics profile rather than being typed in by hand.
type CycleParams struct {
	PlantType    phase.PlantType `json:"plant_type" yaml:"plant_type" binding:"required,oneof=photoperiod autoflowering fast_version"`
	GeneticsName string          `json:"genetics_name,omitempty" yaml:"genetics_name,omitempty" binding:"max=100"`

	VegetativeDays   int     `json:"dias_vegetativo" yaml:"dias_vegetativo" binding:"gte=1,lte=365"`
	FloweringDays    int     `json:"dias_floracao" yaml:"dias_floracao" binding:"gte=1,lte=365"`
	DryingCuringDays int     `json:"dias_secagem_cura" yaml:"dias_secagem_cura" binding:"gte=1,lte=365"`
	VegLightHours    float64 `json:"horas_luz_veg" yaml:"horas_luz_veg" binding:"gte=0,lte=24"`
	FlowerLightHours float64 `json:"horas_luz_flor" yaml:"horas_luz_flor" binding:"gte=0,lte=24"`
	ConstantLight    bool    `json:"luz_constante_auto,omitempty" yaml:"luz_constante_auto,omitempty"`

	Wattage        float64 `json:"potencia_watts" yaml:"potencia_watts" binding:"gte=1,lte=10000"`
	PlantCount     int     `json:"num_plantas" yaml:"num_plantas" binding:"gte=1,lte=1000"`
	YieldPerPlantG float64 `json:"producao_por_planta_g" yaml:"producao_por_planta_g" binding:"gte=1,lte=10000"`

	CustomCycle        bool `json:"ciclo_personalizado" yaml:"ciclo_personalizado"`
	UseGeneticsPresets bool `json:"usar_presets_genetica" yaml:"usar_presets_genetica"`
}

// Growth is the equipment side of a cycle, independent of its timeline.
type Growth struct {
	Wattage        float64 `json:"potencia_watts" yaml:"potencia_watts" binding:"gte=1,lte=10000"`
	PlantCount     int     `json:"num_plantas" yaml:"num_plantas" binding:"gte=1,lte=1000"`
	YieldPerPlantG float64 `json:"producao_por_planta_g" yaml:"producao_por_planta_g" binding:"gte=1,lte=10000"`
}

type CycleEfficiency struct {
	CyclesPerYear    float64 `json:"cycles_per_year"`
	DailyYield       float64 `json:"daily_yield"`
	EnergyEfficiency float64 `json:"energy_efficiency"`
	SpaceEfficiency  float64 `json:"space_efficiency"`
}

type PlantTypeMetrics struct {
	Type            phase.PlantType `json:"type"`
	Genetics        string          `json:"genetics,omitempty"`
	TypicalRangeMin float64         `json:"typical_range_min"`
	TypicalRangeMax float64         `json:"typical_range_max"`
	DifficultyBonus float64         `json:"difficulty_bonus"`
}

type Result struct {
	calculator.CalculationResult
	CycleEfficiency  CycleEfficiency  `json:"cycle_efficiency"`
	PlantTypeMetrics PlantTypeMetrics `json:"plant_type_metrics"`
}

func (p CycleParams) TotalDays() int {
	return p.VegetativeDays + p.FloweringDays + p.DryingCuringDays
}

func (p CycleParams) ExpectedYield() float64 {
	return float64(p.PlantCount) * p.YieldPerPlantG
}

func (p CycleParams) Growth() Growth {
	return Growth{Wattage: p.Wattage, PlantCount: p.PlantCount, YieldPerPlantG: p.YieldPerPlantG}
}

// Overrides returns the timeline overrides that reproduce this cycle in the phase engine.
func (p CycleParams) Overrides() *phase.Overrides {
	veg, flower, dryCure := p.VegetativeDays, p.FloweringDays, p.DryingCuringDays
	return &phase.Overrides{VegetativeDays: &veg, FloweringDays: &flower, DryingCuringDays: &dryCure}
}

// Cycle converts to the fixed-mode calculator input. Constant light only
// applies to autoflowering plants.
func (p CycleParams) Cycle() calculator.CycleParams {
	return calculator.CycleParams{
		Wattage:          p.Wattage,
		PlantCount:       p.PlantCount,
		YieldPerPlantG:   p.YieldPerPlantG,
		VegetativeDays:   p.VegetativeDays,
		VegLightHours:    p.VegLightHours,
		FloweringDays:    p.FloweringDays,
		FlowerLightHours: p.FlowerLightHours,
		DryingCuringDays: p.DryingCuringDays,
		ConstantLight:    p.PlantType == phase.Autoflowering && p.ConstantLight,
	}
}

// CycleFromTimeline fills the cycle durations and light schedule from a
// resolved phase timeline.
func CycleFromTimeline(tl phase.Timeline, g Growth) CycleParams {
	return CycleParams{
		PlantType:        tl.PlantType,
		VegetativeDays:   tl.VegetativeDays,
		FloweringDays:    tl.FloweringDays,
		DryingCuringDays: tl.DryingCuringDays,
		VegLightHours:    tl.VegLightHours,
		FlowerLightHours: tl.FlowerLightHours,
		ConstantLight:    tl.IsAutoflowering,
		Wattage:          g.Wattage,
		PlantCount:       g.PlantCount,
		YieldPerPlantG:   g.YieldPerPlantG,
	}
}

const (
	autoflowerYieldMin = 20
	autoflowerYieldMax = 60
	photoYieldMin      = 60
	photoYieldMax      = 150
	autoflowerBonus    = 1.1
	defaultBonus       = 1.0
	daysPerYear        = 365
)

func CalculateAdaptiveResults(setup calculator.SetupParams, cycle CycleParams, market calculator.MarketParams) (Result, error) {
	if err := cycle.PlantType.Validate(); err != nil {
		return Result{}, err
	}
	base := calculator.CalculateResults(setup, cycle.Cycle(), market)
	duration := float64(base.TotalCycleDays)

	metrics := PlantTypeMetrics{
		Type:            cycle.PlantType,
		Genetics:        cycle.GeneticsName,
		TypicalRangeMin: photoYieldMin,
		TypicalRangeMax: photoYieldMax,
		DifficultyBonus: defaultBonus,
	}
	if cycle.PlantType == phase.Autoflowering {
		metrics.TypicalRangeMin = autoflowerYieldMin
		metrics.TypicalRangeMax = autoflowerYieldMax
		metrics.DifficultyBonus = autoflowerBonus
	}

	return Result{
		CalculationResult: base,
		CycleEfficiency: CycleEfficiency{
			CyclesPerYear:    calculator.SafeDivide(daysPerYear, duration),
			DailyYield:       calculator.SafeDivide(base.TotalProductionG, duration),
			EnergyEfficiency: base.GramsPerWatt,
			SpaceEfficiency:  base.GramsPerM2,
		},
		PlantTypeMetrics: metrics,
	}, nil
}

// CalculateTimelineResults resolves the phase timeline for the plant type and
// feeds its day counts into the calculator.
func CalculateTimelineResults(setup calculator.SetupParams, pt phase.PlantType, o *phase.Overrides, g Growth, market calculator.MarketParams) (Result, error) {
	tl, err := phase.ResolveTimeline(pt, o)
	if err != nil {
		return Result{}, err
	}
	return CalculateAdaptiveResults(setup, CycleFromTimeline(tl, g), market)
}
