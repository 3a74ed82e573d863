package phase

import (
	"fmt"
	"math"
)

// OverrunFactor is how far past its configured length a phase may run before
// it is flagged.
const OverrunFactor = 1.5

const (
	lowTimeEfficiency      = 90
	lowYieldEfficiency     = 70
	highYieldEfficiency    = 120
	maxAutoflowerCycleDays = 100
	maxPhotoperiodVegDays  = 90
)

type EfficiencyMetrics struct {
	TimeEfficiency  float64  `json:"time_efficiency"`
	YieldEfficiency *float64 `json:"yield_efficiency,omitempty"`
	OverallScore    float64  `json:"overall_score"`
	PhaseOverrun    bool     `json:"phase_overrun"`
	OverrunDays     int      `json:"overrun_days,omitempty"`
	Recommendations []string `json:"recommendations"`
}

// CalculateCycleEfficiency scores a cycle against the default timeline for
// its plant type. actualYield is optional; expectedYield of zero yields a
// zero yield efficiency.
func CalculateCycleEfficiency(info PhaseInfo, pt PlantType, expectedYield float64, actualYield *float64) (EfficiencyMetrics, error) {
	def, err := DefaultTimeline(pt)
	if err != nil {
		return EfficiencyMetrics{}, err
	}

	m := EfficiencyMetrics{Recommendations: []string{}}

	if info.TotalCycleDays > 0 {
		m.TimeEfficiency = math.Min(100, float64(def.TotalDays)/float64(info.TotalCycleDays)*100)
	} else {
		m.TimeEfficiency = 100
	}
	if m.TimeEfficiency < lowTimeEfficiency {
		m.Recommendations = append(m.Recommendations,
			"Considere otimizar o ciclo: a duração total está acima do padrão para este tipo de planta")
	}

	scores := []float64{m.TimeEfficiency}
	if actualYield != nil {
		var ye float64
		if expectedYield > 0 {
			ye = *actualYield / expectedYield * 100
		}
		m.YieldEfficiency = &ye
		scores = append(scores, ye)
		switch {
		case ye < lowYieldEfficiency:
			m.Recommendations = append(m.Recommendations,
				"Produção abaixo do esperado: revise nutrição, iluminação e genética")
		case ye > highYieldEfficiency:
			m.Recommendations = append(m.Recommendations,
				"Produção acima do esperado: registre as condições deste ciclo para repetir")
		}
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	m.OverallScore = sum / float64(len(scores))

	if info.CurrentPhaseDays > 0 && float64(info.DaysInCurrentPhase) > OverrunFactor*float64(info.CurrentPhaseDays) {
		m.PhaseOverrun = true
		m.OverrunDays = info.DaysInCurrentPhase - info.CurrentPhaseDays
		m.Recommendations = append(m.Recommendations, fmt.Sprintf(
			"Fase %s passou %d dias da duração configurada (%d dias): verifique as condições de cultivo",
			info.Phase, m.OverrunDays, info.CurrentPhaseDays))
	}

	if pt == Autoflowering && info.TotalCycleDays > maxAutoflowerCycleDays {
		m.Recommendations = append(m.Recommendations,
			"Ciclo longo para automática: verifique estresse, fotoperíodo e genética")
	}
	if pt == Photoperiod && info.Phase == Vegetative && info.DaysInCurrentPhase > maxPhotoperiodVegDays {
		m.Recommendations = append(m.Recommendations,
			"Vegetativo prolongado: considere induzir a floração (12h luz/12h escuro)")
	}

	return m, nil
}
