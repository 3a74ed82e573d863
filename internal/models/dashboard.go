package models

import (
	"time"

	"cultivation-service/internal/phase"
)

type DashboardStats struct {
	TotalCultivations  int        `json:"total_cultivations"`
	ActiveCultivations int        `json:"active_cultivations"`
	TotalEvents        int        `json:"total_events"`
	LastUpdate         *time.Time `json:"last_update,omitempty"`
}

// DashboardCultivation is a cultivation with its current phase. Phase is empty
// when the timeline cannot be computed.
type DashboardCultivation struct {
	Cultivation
	CurrentPhase   phase.Phase `json:"current_phase,omitempty"`
	DaysSinceStart int         `json:"days_since_start"`
}

// DashboardSummary is the landing page view of one grower.
type DashboardSummary struct {
	Stats        DashboardStats         `json:"stats"`
	Cultivations []DashboardCultivation `json:"cultivations"`
	RecentEvents []CultivationEvent     `json:"recent_events"`
	Environment  *EnvironmentReading    `json:"environment,omitempty"`
}
