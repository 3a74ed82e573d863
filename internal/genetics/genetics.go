package genetics

import (
	"regexp"
	"slices"
	"strings"

	"cultivation-service/internal/phase"
)

type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (r Range) Midpoint() float64 {
	return (r.Min + r.Max) / 2
}

type Ratio struct {
	Indica    int `json:"indica"`
	Sativa    int `json:"sativa"`
	Ruderalis int `json:"ruderalis,omitempty"`
}

type LightRequirements struct {
	VegetativeHours float64 `json:"vegetative_hours"`
	FloweringHours  float64 `json:"flowering_hours"`
	AutoLightHours  float64 `json:"auto_light_hours,omitempty"`
}

// Resistance scores go from 1 to 10.
type Resistance struct {
	Mold   int `json:"mold"`
	Pests  int `json:"pests"`
	Stress int `json:"stress"`
}

type OptimalConditions struct {
	TemperatureC       Range `json:"temperature_range"`
	HumidityVegetative Range `json:"humidity_vegetative"`
	HumidityFlowering  Range `json:"humidity_flowering"`
	PH                 Range `json:"ph_range"`
	EC                 Range `json:"ec_range"`
}

type Strain struct {
	Key            string            `json:"key"`
	Name           string            `json:"name"`
	Type           phase.PlantType   `json:"type"`
	Ratio          Ratio             `json:"indica_sativa_ratio"`
	FloweringDays  Range             `json:"flowering_time_range"`
	VegetativeDays *Range            `json:"vegetative_time_range,omitempty"`
	TotalCycleDays Range             `json:"total_cycle_range"`
	YieldG         Range             `json:"expected_yield_range"`
	Light          LightRequirements `json:"light_requirements"`
	Difficulty     Difficulty        `json:"difficulty_level"`
	Resistance     Resistance        `json:"resistance_traits"`
	Conditions     OptimalConditions `json:"optimal_conditions"`
}

var database = map[string]Strain{
	"og_kush": {
		Key:            "og_kush",
		Name:           "OG Kush",
		Type:           phase.Photoperiod,
		Ratio:          Ratio{Indica: 75, Sativa: 25},
		FloweringDays:  Range{56, 70},
		VegetativeDays: &Range{30, 90},
		TotalCycleDays: Range{120, 180},
		YieldG:         Range{60, 120},
		Light:          LightRequirements{VegetativeHours: 18, FloweringHours: 12},
		Difficulty:     Intermediate,
		Resistance:     Resistance{Mold: 6, Pests: 7, Stress: 6},
		Conditions: OptimalConditions{
			TemperatureC:       Range{20, 26},
			HumidityVegetative: Range{60, 70},
			HumidityFlowering:  Range{40, 50},
			PH:                 Range{6.0, 6.5},
			EC:                 Range{1.0, 1.6},
		},
	},
	"northern_lights_auto": {
		Key:            "northern_lights_auto",
		Name:           "Northern Lights Auto",
		Type:           phase.Autoflowering,
		Ratio:          Ratio{Indica: 90, Sativa: 10, Ruderalis: 20},
		FloweringDays:  Range{35, 45},
		VegetativeDays: &Range{20, 30},
		TotalCycleDays: Range{70, 85},
		YieldG:         Range{25, 60},
		Light:          LightRequirements{VegetativeHours: 20, FloweringHours: 20, AutoLightHours: 20},
		Difficulty:     Beginner,
		Resistance:     Resistance{Mold: 8, Pests: 8, Stress: 9},
		Conditions: OptimalConditions{
			TemperatureC:       Range{18, 24},
			HumidityVegetative: Range{60, 70},
			HumidityFlowering:  Range{45, 55},
			PH:                 Range{6.0, 6.5},
			EC:                 Range{0.8, 1.4},
		},
	},
	"amnesia_haze": {
		Key:            "amnesia_haze",
		Name:           "Amnesia Haze",
		Type:           phase.Photoperiod,
		Ratio:          Ratio{Indica: 20, Sativa: 80},
		FloweringDays:  Range{70, 84},
		VegetativeDays: &Range{45, 120},
		TotalCycleDays: Range{140, 220},
		YieldG:         Range{80, 180},
		Light:          LightRequirements{VegetativeHours: 18, FloweringHours: 12},
		Difficulty:     Advanced,
		Resistance:     Resistance{Mold: 4, Pests: 5, Stress: 4},
		Conditions: OptimalConditions{
			TemperatureC:       Range{22, 28},
			HumidityVegetative: Range{60, 75},
			HumidityFlowering:  Range{35, 45},
			PH:                 Range{6.0, 6.8},
			EC:                 Range{1.2, 1.8},
		},
	},
	"gorilla_glue_4": {
		Key:            "gorilla_glue_4",
		Name:           "Gorilla Glue #4",
		Type:           phase.Photoperiod,
		Ratio:          Ratio{Indica: 63, Sativa: 37},
		FloweringDays:  Range{56, 63},
		VegetativeDays: &Range{30, 80},
		TotalCycleDays: Range{110, 160},
		YieldG:         Range{70, 150},
		Light:          LightRequirements{VegetativeHours: 18, FloweringHours: 12},
		Difficulty:     Intermediate,
		Resistance:     Resistance{Mold: 7, Pests: 8, Stress: 7},
		Conditions: OptimalConditions{
			TemperatureC:       Range{21, 27},
			HumidityVegetative: Range{55, 65},
			HumidityFlowering:  Range{40, 50},
			PH:                 Range{6.0, 6.5},
			EC:                 Range{1.0, 1.6},
		},
	},
	"white_widow_auto": {
		Key:            "white_widow_auto",
		Name:           "White Widow Auto",
		Type:           phase.Autoflowering,
		Ratio:          Ratio{Indica: 60, Sativa: 40, Ruderalis: 25},
		FloweringDays:  Range{42, 52},
		VegetativeDays: &Range{25, 35},
		TotalCycleDays: Range{80, 95},
		YieldG:         Range{30, 80},
		Light:          LightRequirements{VegetativeHours: 20, FloweringHours: 20, AutoLightHours: 18},
		Difficulty:     Beginner,
		Resistance:     Resistance{Mold: 7, Pests: 7, Stress: 8},
		Conditions: OptimalConditions{
			TemperatureC:       Range{20, 25},
			HumidityVegetative: Range{60, 70},
			HumidityFlowering:  Range{45, 55},
			PH:                 Range{6.0, 6.5},
			EC:                 Range{0.9, 1.5},
		},
	},
}

// Breeders tune these timelines tighter than the catalogue midpoints.
var timelineOverrides = map[string]struct{ veg, flower, dryCure int }{
	"northern_lights_auto": {25, 40, 15},
	"white_widow_auto":     {30, 45, 15},
	"og_kush":              {60, 65, 20},
	"amnesia_haze":         {70, 77, 20},
	"gorilla_glue_4":       {55, 60, 20},
}

var whitespace = regexp.MustCompile(`\s+`)

// NormalizeName turns a display name such as "Gorilla Glue #4" into its catalogue key.
func NormalizeName(name string) string {
	key := strings.ToLower(strings.TrimSpace(name))
	key = whitespace.ReplaceAllString(key, "_")
	return strings.ReplaceAll(key, "#", "")
}

func Lookup(name string) (Strain, bool) {
	s, ok := database[NormalizeName(name)]
	return s, ok
}

// List returns every strain sorted by key.
func List() []Strain {
	out := make([]Strain, 0, len(database))
	for _, s := range database {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b Strain) int { return strings.Compare(a.Key, b.Key) })
	return out
}

// TimelineOverrides returns the tuned phase durations for a known strain.
func TimelineOverrides(name string) (*phase.Overrides, bool) {
	t, ok := timelineOverrides[NormalizeName(name)]
	if !ok {
		return nil, false
	}
	veg, flower, dryCure := t.veg, t.flower, t.dryCure
	return &phase.Overrides{VegetativeDays: &veg, FloweringDays: &flower, DryingCuringDays: &dryCure}, true
}
