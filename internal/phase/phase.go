package phase

import (
	"fmt"
	"math"
	"time"
)

type Phase string

const (
	Germination Phase = "germination"
	Seedling    Phase = "seedling"
	Vegetative  Phase = "vegetative"
	Flowering   Phase = "flowering"
	Drying      Phase = "drying"
	Curing      Phase = "curing"
	Completed   Phase = "completed"
)

var phaseOrder = []Phase{Germination, Seedling, Vegetative, Flowering, Drying, Curing, Completed}

// Index is the position of p in the cycle, or -1 for unknown values.
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

func (p Phase) IsValid() bool {
	return p.Index() >= 0
}

func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

type PhaseInfo struct {
	Phase                 Phase    `json:"phase"`
	DaysSinceStart        int      `json:"days_since_start"`
	DaysInCurrentPhase    int      `json:"days_in_current_phase"`
	CurrentPhaseDays      int      `json:"current_phase_days"`
	TotalCycleDays        int      `json:"total_cycle_days"`
	ProgressPercent       float64  `json:"progress_percent"`
	ExpectedRemainingDays int      `json:"expected_remaining_days"`
	NextPhase             Phase    `json:"next_phase,omitempty"`
	Description           string   `json:"description"`
	Timeline              Timeline `json:"timeline"`
}

// DaysBetween counts whole days elapsed from start to now. Negative spans clamp to zero.
func DaysBetween(start, now time.Time) int {
	days := math.Floor(now.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// CalculateCultivationPhase classifies a cultivation purely by elapsed time.
func CalculateCultivationPhase(start time.Time, pt PlantType, o *Overrides, now time.Time) (PhaseInfo, error) {
	tl, err := ResolveTimeline(pt, o)
	if err != nil {
		return PhaseInfo{}, err
	}
	return tl.Info(DaysBetween(start, now)), nil
}

// Info builds the phase snapshot for a given elapsed day count.
func (t Timeline) Info(days int) PhaseInfo {
	days = max(0, days)
	p, phaseStart := t.Classify(days)

	info := PhaseInfo{
		Phase:                 p,
		DaysSinceStart:        days,
		DaysInCurrentPhase:    days - phaseStart,
		CurrentPhaseDays:      t.PhaseDays(p),
		TotalCycleDays:        t.TotalDays,
		ProgressPercent:       progress(days, t.TotalDays),
		ExpectedRemainingDays: max(0, t.TotalDays-days),
		NextPhase:             t.nextPhase(p),
		Description:           t.describe(p),
		Timeline:              t,
	}
	return info
}

func progress(days, total int) float64 {
	if total <= 0 {
		return 100
	}
	return math.Min(100, float64(days)/float64(total)*100)
}

func (t Timeline) describe(p Phase) string {
	switch p {
	case Germination:
		return "Germinação das sementes"
	case Seedling:
		return "Desenvolvimento inicial das mudas"
	case Vegetative:
		if t.IsAutoflowering {
			return "Crescimento vegetativo automático"
		}
		return fmt.Sprintf("Crescimento vegetativo (%gh de luz)", t.VegLightHours)
	case Flowering:
		if t.IsAutoflowering {
			return "Floração automática, sem troca de fotoperíodo"
		}
		return fmt.Sprintf("Floração (%gh luz/%gh escuro)", t.FlowerLightHours, 24-t.FlowerLightHours)
	case Drying:
		return "Secagem pós-colheita"
	case Curing:
		return "Cura para melhor qualidade"
	case Completed:
		return "Ciclo completado"
	}
	return ""
}

// ShouldTransitionToFlowering tells photoperiod growers when to cut the light
// schedule. Autoflowering plants switch on their own and never qualify.
func ShouldTransitionToFlowering(info PhaseInfo, pt PlantType, manualTrigger bool) bool {
	if !pt.RequiresLightSwitch() {
		return false
	}
	if info.Phase != Vegetative {
		return false
	}
	return manualTrigger || info.DaysInCurrentPhase >= minVegetativeBeforeFlip
}

const minVegetativeBeforeFlip = 45
