package genetics

import (
	"math"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/phase"
)

type PresetDifficulty string

const (
	Easy   PresetDifficulty = "easy"
	Medium PresetDifficulty = "medium"
	Hard   PresetDifficulty = "hard"
)

type Preset struct {
	ID                string               `json:"id"`
	Name              string               `json:"name"`
	PlantType         phase.PlantType      `json:"plant_type"`
	Description       string               `json:"description"`
	Cycle             adaptive.CycleParams `json:"cycle_params"`
	TypicalYield      Range                `json:"typical_yield_range"`
	Difficulty        PresetDifficulty     `json:"difficulty"`
	EstimatedDuration int                  `json:"estimated_duration"`
}

var presets = []Preset{
	{
		ID:          "auto_beginner",
		Name:        "Automática - Iniciante",
		PlantType:   phase.Autoflowering,
		Description: "Ciclo rápido de 70-85 dias, ideal para iniciantes",
		Cycle: adaptive.CycleParams{
			PlantType: phase.Autoflowering, VegetativeDays: 25, FloweringDays: 45, DryingCuringDays: 15,
			VegLightHours: 20, FlowerLightHours: 20, ConstantLight: true,
			Wattage: 300, PlantCount: 4, YieldPerPlantG: 30, UseGeneticsPresets: true,
		},
		TypicalYield:      Range{20, 50},
		Difficulty:        Easy,
		EstimatedDuration: 85,
	},
	{
		ID:          "photo_standard",
		Name:        "Fotoperíodo - Padrão",
		PlantType:   phase.Photoperiod,
		Description: "Ciclo clássico de 120-150 dias com máximo controle",
		Cycle: adaptive.CycleParams{
			PlantType: phase.Photoperiod, VegetativeDays: 55, FloweringDays: 70, DryingCuringDays: 20,
			VegLightHours: 18, FlowerLightHours: 12,
			Wattage: 480, PlantCount: 6, YieldPerPlantG: 80, UseGeneticsPresets: true,
		},
		TypicalYield:      Range{60, 120},
		Difficulty:        Medium,
		EstimatedDuration: 145,
	},
	{
		ID:          "fast_version",
		Name:        "Fast Version",
		PlantType:   phase.FastVersion,
		Description: "Fotoperíodo com floração acelerada",
		Cycle: adaptive.CycleParams{
			PlantType: phase.FastVersion, VegetativeDays: 40, FloweringDays: 50, DryingCuringDays: 15,
			VegLightHours: 18, FlowerLightHours: 12,
			Wattage: 400, PlantCount: 6, YieldPerPlantG: 60, UseGeneticsPresets: true,
		},
		TypicalYield:      Range{45, 85},
		Difficulty:        Medium,
		EstimatedDuration: 105,
	},
	{
		ID:          "sea_of_green",
		Name:        "Sea of Green (SOG)",
		PlantType:   phase.Photoperiod,
		Description: "Muitas plantas pequenas, ciclo vegetativo curto",
		Cycle: adaptive.CycleParams{
			PlantType: phase.Photoperiod, VegetativeDays: 21, FloweringDays: 70, DryingCuringDays: 20,
			VegLightHours: 18, FlowerLightHours: 12,
			Wattage: 600, PlantCount: 16, YieldPerPlantG: 25,
		},
		TypicalYield:      Range{20, 35},
		Difficulty:        Hard,
		EstimatedDuration: 111,
	},
	{
		ID:          "scrog_extended",
		Name:        "SCROG Estendido",
		PlantType:   phase.Photoperiod,
		Description: "Vegetativo longo para plantas grandes",
		Cycle: adaptive.CycleParams{
			PlantType: phase.Photoperiod, VegetativeDays: 90, FloweringDays: 70, DryingCuringDays: 20,
			VegLightHours: 18, FlowerLightHours: 12,
			Wattage: 600, PlantCount: 2, YieldPerPlantG: 200,
		},
		TypicalYield:      Range{150, 300},
		Difficulty:        Hard,
		EstimatedDuration: 180,
	},
}

func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

func PresetByID(id string) (Preset, bool) {
	for _, p := range presets {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}

var defaultCycles = map[phase.PlantType]adaptive.CycleParams{
	phase.Photoperiod: {
		PlantType: phase.Photoperiod, VegetativeDays: 55, FloweringDays: 70, DryingCuringDays: 20,
		VegLightHours: 18, FlowerLightHours: 12, Wattage: 480, PlantCount: 6, YieldPerPlantG: 80,
	},
	phase.Autoflowering: {
		PlantType: phase.Autoflowering, VegetativeDays: 25, FloweringDays: 45, DryingCuringDays: 15,
		VegLightHours: 20, FlowerLightHours: 20, ConstantLight: true, Wattage: 300, PlantCount: 4, YieldPerPlantG: 35,
	},
	phase.FastVersion: {
		PlantType: phase.FastVersion, VegetativeDays: 40, FloweringDays: 50, DryingCuringDays: 15,
		VegLightHours: 18, FlowerLightHours: 12, Wattage: 400, PlantCount: 6, YieldPerPlantG: 60,
	},
}

func DefaultCycleConfig(pt phase.PlantType) (adaptive.CycleParams, error) {
	if err := pt.Validate(); err != nil {
		return adaptive.CycleParams{}, err
	}
	return defaultCycles[pt], nil
}

const catalogueDryingCuringDays = 20

// CycleConfigFromGenetics builds a cycle from catalogue midpoints. Unknown
// strains fall back to the plant type defaults.
func CycleConfigFromGenetics(name string, pt phase.PlantType) (adaptive.CycleParams, error) {
	s, ok := Lookup(name)
	if !ok {
		return DefaultCycleConfig(pt)
	}

	auto := s.Type == phase.Autoflowering
	veg := 60
	if auto {
		veg = 25
	}
	if s.VegetativeDays != nil {
		veg = roundDays(s.VegetativeDays.Midpoint())
	}

	cfg := adaptive.CycleParams{
		PlantType:          s.Type,
		GeneticsName:       s.Name,
		VegetativeDays:     veg,
		FloweringDays:      roundDays(s.FloweringDays.Midpoint()),
		DryingCuringDays:   catalogueDryingCuringDays,
		VegLightHours:      s.Light.VegetativeHours,
		FlowerLightHours:   s.Light.FloweringHours,
		ConstantLight:      auto,
		Wattage:            480,
		PlantCount:         6,
		YieldPerPlantG:     math.Round(s.YieldG.Midpoint()),
		UseGeneticsPresets: true,
	}
	if auto {
		cfg.Wattage = 300
		cfg.PlantCount = 4
	}
	return cfg, nil
}

func roundDays(v float64) int {
	return int(math.Round(v))
}

// ApplyGeneticsPreset replaces the durations and light schedule of a cycle
// with the catalogue values for its genetics, keeping the grower's equipment.
// Custom cycles, cycles without genetics and unknown strains are returned as is.
func ApplyGeneticsPreset(c adaptive.CycleParams) adaptive.CycleParams {
	if !c.UseGeneticsPresets || c.CustomCycle || c.GeneticsName == "" {
		return c
	}
	if _, ok := Lookup(c.GeneticsName); !ok {
		return c
	}
	preset, err := CycleConfigFromGenetics(c.GeneticsName, c.PlantType)
	if err != nil {
		return c
	}

	c.PlantType = preset.PlantType
	c.VegetativeDays = preset.VegetativeDays
	c.FloweringDays = preset.FloweringDays
	c.DryingCuringDays = preset.DryingCuringDays
	c.VegLightHours = preset.VegLightHours
	c.FlowerLightHours = preset.FlowerLightHours
	c.ConstantLight = preset.ConstantLight
	return c
}
