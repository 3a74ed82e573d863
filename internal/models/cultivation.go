package models

import (
	"time"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/calculator"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/utils"

	"github.com/google/uuid"
)

// ============================================================================
// CULTIVATION
// ============================================================================

type Cultivation struct {
	ID                uuid.UUID                            `json:"id" db:"id"`
	UserID            string                               `json:"user_id" db:"user_id"`
	Name              string                               `json:"name" db:"name"`
	SeedStrain        string                               `json:"seed_strain" db:"seed_strain"`
	PlantType         phase.PlantType                      `json:"plant_type" db:"plant_type"`
	GeneticsName      *string                              `json:"genetics_name,omitempty" db:"genetics_name"`
	CyclePresetID     *string                              `json:"cycle_preset_id,omitempty" db:"cycle_preset_id"`
	Status            CultivationStatus                    `json:"status" db:"status"`
	StartDate         time.Time                            `json:"start_date" db:"start_date"`
	EndDate           *time.Time                           `json:"end_date,omitempty" db:"end_date"`
	FloweringDate     *time.Time                           `json:"flowering_date,omitempty" db:"flowering_date"`
	HarvestDate       *time.Time                           `json:"harvest_date,omitempty" db:"harvest_date"`
	CuringDate        *time.Time                           `json:"curing_date,omitempty" db:"curing_date"`
	YieldG            *float64                             `json:"yield_g,omitempty" db:"yield_g"`
	ProfitBRL         *float64                             `json:"profit_brl,omitempty" db:"profit_brl"`
	PhotoURL          *string                              `json:"photo_url,omitempty" db:"photo_url"`
	HasSevereProblems bool                                 `json:"has_severe_problems" db:"has_severe_problems"`
	SetupParams       utils.JSONB[calculator.SetupParams]  `json:"setup_params" db:"setup_params"`
	CycleParams       utils.JSONB[adaptive.CycleParams]    `json:"cycle_params" db:"cycle_params"`
	MarketParams      utils.JSONB[calculator.MarketParams] `json:"market_params" db:"market_params"`
	TimelineOverrides utils.JSONB[phase.Overrides]         `json:"timeline_overrides" db:"timeline_overrides"`
	CreatedAt         time.Time                            `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time                            `json:"updated_at" db:"updated_at"`
}

// Transitions exposes the recorded phase changes to the phase engine.
// A completed cultivation uses its end date as the completion transition.
func (c *Cultivation) Transitions() phase.Transitions {
	tr := phase.Transitions{
		FloweringAt: c.FloweringDate,
		HarvestAt:   c.HarvestDate,
		CuringAt:    c.CuringDate,
	}
	if c.Status == CultivationCompleted {
		tr.CompletedAt = c.EndDate
	}
	return tr
}

// CultivationStatusReport is the live view of a cultivation: where it is in
// its cycle, when it should finish and how it compares to the defaults.
type CultivationStatusReport struct {
	Cultivation          *Cultivation            `json:"cultivation"`
	Phase                phase.PhaseInfo         `json:"phase"`
	Harvest              phase.HarvestSchedule   `json:"harvest"`
	Efficiency           phase.EfficiencyMetrics `json:"efficiency"`
	ShouldStartFlowering bool                    `json:"should_start_flowering"`
	Results              *adaptive.Result        `json:"results,omitempty"`
	ConfigWarnings       []string                `json:"config_warnings"`
}
