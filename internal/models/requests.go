package models

import (
	"time"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/calculator"
	"cultivation-service/internal/phase"
)

// ============================================================================
// CALCULATOR AND PHASE ENGINE
// ============================================================================

type CalculateRequest struct {
	Setup  calculator.SetupParams  `json:"setup"`
	Cycle  calculator.CycleParams  `json:"cycle"`
	Market calculator.MarketParams `json:"market"`
}

type AdaptiveCalculateRequest struct {
	Setup  calculator.SetupParams  `json:"setup"`
	Cycle  adaptive.CycleParams    `json:"cycle"`
	Market calculator.MarketParams `json:"market"`
}

type PhaseRequest struct {
	StartDate time.Time        `json:"start_date"`
	PlantType phase.PlantType  `json:"plant_type" binding:"required,oneof=photoperiod autoflowering fast_version"`
	Overrides *phase.Overrides `json:"overrides,omitempty"`
	// Now pins the reference time. Defaults to the server clock.
	Now *time.Time `json:"now,omitempty"`
}

type EfficiencyRequest struct {
	PhaseRequest
	ExpectedYieldG float64  `json:"expected_yield_g" binding:"gte=0"`
	ActualYieldG   *float64 `json:"actual_yield_g,omitempty" binding:"omitempty,gte=0"`
}

// ============================================================================
// CULTIVATIONS
// ============================================================================

type CreateCultivationRequest struct {
	Name              string                   `json:"name" binding:"required,min=1,max=100"`
	SeedStrain        string                   `json:"seed_strain" binding:"required,min=1,max=50"`
	StartDate         time.Time                `json:"start_date"`
	PlantType         phase.PlantType          `json:"plant_type" binding:"required,oneof=photoperiod autoflowering fast_version"`
	GeneticsName      *string                  `json:"genetics_name,omitempty" binding:"omitempty,max=100"`
	CyclePresetID     *string                  `json:"cycle_preset_id,omitempty" binding:"omitempty,max=50"`
	SetupParams       *calculator.SetupParams  `json:"setup_params,omitempty"`
	CycleParams       *adaptive.CycleParams    `json:"cycle_params,omitempty"`
	MarketParams      *calculator.MarketParams `json:"market_params,omitempty"`
	TimelineOverrides *phase.Overrides         `json:"timeline_overrides,omitempty"`
}

type UpdateCultivationRequest struct {
	Name              *string                  `json:"name,omitempty" binding:"omitempty,min=1,max=100"`
	SeedStrain        *string                  `json:"seed_strain,omitempty" binding:"omitempty,min=1,max=50"`
	Status            *CultivationStatus       `json:"status,omitempty" binding:"omitempty,oneof=active completed archived"`
	EndDate           *time.Time               `json:"end_date,omitempty"`
	FloweringDate     *time.Time               `json:"flowering_date,omitempty"`
	HarvestDate       *time.Time               `json:"harvest_date,omitempty"`
	CuringDate        *time.Time               `json:"curing_date,omitempty"`
	YieldG            *float64                 `json:"yield_g,omitempty" binding:"omitempty,gte=0"`
	ProfitBRL         *float64                 `json:"profit_brl,omitempty"`
	PhotoURL          *string                  `json:"photo_url,omitempty" binding:"omitempty,url"`
	HasSevereProblems *bool                    `json:"has_severe_problems,omitempty"`
	SetupParams       *calculator.SetupParams  `json:"setup_params,omitempty"`
	CycleParams       *adaptive.CycleParams    `json:"cycle_params,omitempty"`
	MarketParams      *calculator.MarketParams `json:"market_params,omitempty"`
	TimelineOverrides *phase.Overrides         `json:"timeline_overrides,omitempty"`
}

// ============================================================================
// EVENTS, IMAGES, AI
// ============================================================================

type CreateEventRequest struct {
	Type        EventType      `json:"type" binding:"required,oneof=watering feeding pruning harvest problem note phase_change"`
	Title       string         `json:"title" binding:"required,min=1,max=100"`
	Description *string        `json:"description,omitempty" binding:"omitempty,max=1000"`
	Date        time.Time      `json:"date"`
	Details     map[string]any `json:"details,omitempty"`
}

type UploadImageRequest struct {
	Image         string  `json:"image"`
	Filename      string  `json:"filename" binding:"omitempty,max=255"`
	CultivationID string  `json:"cultivation_id" binding:"required,uuid"`
	EventID       *string `json:"event_id,omitempty" binding:"omitempty,uuid"`
}

type CultivationAnalysisRequest struct {
	CultivationID *string        `json:"cultivation_id,omitempty" binding:"omitempty,uuid"`
	Question      string         `json:"question" binding:"max=2000"`
	Data          map[string]any `json:"data,omitempty"`
}

type VisionAnalysisRequest struct {
	Image         string  `json:"image"`
	Prompt        string  `json:"prompt" binding:"max=2000"`
	CultivationID *string `json:"cultivation_id,omitempty" binding:"omitempty,uuid"`
}

type UpdateNotificationPreferencesRequest struct {
	Reminders       *bool   `json:"reminders,omitempty"`
	Alerts          *bool   `json:"alerts,omitempty"`
	Achievements    *bool   `json:"achievements,omitempty"`
	Marketing       *bool   `json:"marketing,omitempty"`
	PushEnabled     *bool   `json:"push_enabled,omitempty"`
	EmailEnabled    *bool   `json:"email_enabled,omitempty"`
	QuietHoursStart *int    `json:"quiet_hours_start,omitempty" binding:"omitempty,min=0,max=23"`
	QuietHoursEnd   *int    `json:"quiet_hours_end,omitempty" binding:"omitempty,min=0,max=23"`
	Timezone        *string `json:"timezone,omitempty" binding:"omitempty,timezone"`
}
