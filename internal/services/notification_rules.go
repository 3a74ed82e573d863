package services

import (
	"fmt"
	"math"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/utils"
)

// RuleContext is everything a notification rule may look at for one cultivation.
type RuleContext struct {
	Cultivation            *models.Cultivation
	Phase                  phase.PhaseInfo
	Efficiency             phase.EfficiencyMetrics
	DaysSinceLastWatering  int
	DaysSinceLastNutrition int
	DaysSincePhaseChange   int
	Environment            *models.EnvironmentReading
}

type NotificationRule struct {
	ID       string
	Name     string
	Cooldown time.Duration
	Condition func(rc RuleContext) bool
	Action    func(rc RuleContext) models.Notification
}

// BuildRuleContext derives the rule inputs from a cultivation, the latest date
// of each event type and the latest environment reading. An event type never
// logged counts from the cultivation start.
func BuildRuleContext(c *models.Cultivation, latest map[models.EventType]time.Time, env *models.EnvironmentReading, now time.Time) (RuleContext, error) {
	report, err := BuildStatusReport(c, now)
	if err != nil {
		return RuleContext{}, err
	}

	since := func(t models.EventType) int {
		if at, ok := latest[t]; ok {
			return phase.DaysBetween(at, now)
		}
		return phase.DaysBetween(c.StartDate, now)
	}

	return RuleContext{
		Cultivation:            c,
		Phase:                  report.Phase,
		Efficiency:             report.Efficiency,
		DaysSinceLastWatering:  since(models.EventWatering),
		DaysSinceLastNutrition: since(models.EventFeeding),
		DaysSincePhaseChange:   report.Phase.DaysInCurrentPhase,
		Environment:            env,
	}, nil
}

// EvaluateRules returns one notification per rule whose condition holds.
// Cooldowns are applied by the caller.
func EvaluateRules(rules []NotificationRule, rc RuleContext) []RuleHit {
	var hits []RuleHit
	for _, r := range rules {
		if r.Condition(rc) {
			hits = append(hits, RuleHit{Rule: r, Notification: r.Action(rc)})
		}
	}
	return hits
}

type RuleHit struct {
	Rule         NotificationRule
	Notification models.Notification
}

func growing(p phase.Phase) bool {
	switch p {
	case phase.Germination, phase.Seedling, phase.Vegetative, phase.Flowering:
		return true
	}
	return false
}

var phaseAdvice = map[phase.Phase]string{
	phase.Germination: "Mantenha o substrato úmido e a temperatura estável",
	phase.Seedling:    "Mantenha umidade alta e luz suave",
	phase.Vegetative:  "Aumente nutrientes de nitrogênio e mantenha 18h de luz",
	phase.Flowering:   "Mude para 12h de luz e nutrientes de fósforo/potássio",
	phase.Drying:      "Pendure os galhos em local escuro e ventilado",
	phase.Curing:      "Abra os potes diariamente para trocar o ar",
	phase.Completed:   "Registre a produção final para comparar ciclos",
}

func notificationFor(rc RuleContext, ruleID string, t models.NotificationType, p models.NotificationPriority, title, message string, extra utils.JSONMap) models.Notification {
	action := fmt.Sprintf("/cultivations/%s", rc.Cultivation.ID)
	meta := utils.JSONMap{
		"rule_id":        ruleID,
		"cultivation_id": rc.Cultivation.ID.String(),
	}
	for k, v := range extra {
		meta[k] = v
	}
	return models.Notification{
		UserID:    rc.Cultivation.UserID,
		Type:      t,
		Title:     title,
		Message:   message,
		Priority:  p,
		Metadata:  meta,
		ActionURL: &action,
	}
}

func DefaultRules() []NotificationRule {
	return []NotificationRule{
		{
			ID:       "watering-overdue",
			Name:     "Rega Atrasada",
			Cooldown: 60 * time.Minute,
			Condition: func(rc RuleContext) bool {
				return growing(rc.Phase.Phase) && rc.DaysSinceLastWatering > 3
			},
			Action: func(rc RuleContext) models.Notification {
				return notificationFor(rc, "watering-overdue", models.NotificationAlert, models.PriorityHigh,
					"💧 Rega Urgente Necessária!",
					fmt.Sprintf("Seu cultivo %s não recebe água há %d dias. Regue imediatamente para evitar estresse hídrico.",
						rc.Cultivation.Name, rc.DaysSinceLastWatering),
					utils.JSONMap{"days_since_last_watering": rc.DaysSinceLastWatering})
			},
		},
		{
			ID:       "nutrition-reminder",
			Name:     "Lembrete de Nutrição",
			Cooldown: 120 * time.Minute,
			Condition: func(rc RuleContext) bool {
				switch rc.Phase.Phase {
				case phase.Flowering:
					return rc.DaysSinceLastNutrition > 5
				case phase.Vegetative:
					return rc.DaysSinceLastNutrition > 7
				}
				return false
			},
			Action: func(rc RuleContext) models.Notification {
				return notificationFor(rc, "nutrition-reminder", models.NotificationReminder, models.PriorityMedium,
					"🌱 Hora dos Nutrientes!",
					fmt.Sprintf("Seu cultivo %s precisa de nutrientes. Fase %s: aplicar fertilizante adequado.",
						rc.Cultivation.Name, rc.Phase.Phase),
					utils.JSONMap{"current_phase": rc.Phase.Phase, "days_since_last_nutrition": rc.DaysSinceLastNutrition})
			},
		},
		{
			ID:       "phase-change-detected",
			Name:     "Mudança de Fase",
			Cooldown: 1440 * time.Minute,
			Condition: func(rc RuleContext) bool {
				return rc.DaysSincePhaseChange == 0 && rc.Phase.DaysSinceStart > 0
			},
			Action: func(rc RuleContext) models.Notification {
				return notificationFor(rc, "phase-change-detected", models.NotificationReminder, models.PriorityMedium,
					fmt.Sprintf("🌿 Nova Fase: %s", rc.Phase.Phase),
					fmt.Sprintf("Seu cultivo %s entrou na fase %s. %s.",
						rc.Cultivation.Name, rc.Phase.Phase, phaseAdvice[rc.Phase.Phase]),
					utils.JSONMap{"new_phase": rc.Phase.Phase})
			},
		},
		{
			ID:       "phase-overrun",
			Name:     "Fase Prolongada",
			Cooldown: 720 * time.Minute,
			Condition: func(rc RuleContext) bool {
				return rc.Efficiency.PhaseOverrun
			},
			Action: func(rc RuleContext) models.Notification {
				return notificationFor(rc, "phase-overrun", models.NotificationAlert, models.PriorityHigh,
					"⚠️ Fase Prolongada",
					fmt.Sprintf("Seu cultivo %s está há %d dias na fase %s, %d dias além do esperado. Verifique condições ambientais, nutrientes e possíveis problemas.",
						rc.Cultivation.Name, rc.Phase.DaysInCurrentPhase, rc.Phase.Phase, rc.Efficiency.OverrunDays),
					utils.JSONMap{"days_in_phase": rc.Phase.DaysInCurrentPhase, "overrun_days": rc.Efficiency.OverrunDays})
			},
		},
		{
			ID:       "environmental-alert",
			Name:     "Condições Ambientais",
			Cooldown: 180 * time.Minute,
			Condition: func(rc RuleContext) bool {
				return environmentIssue(rc.Environment, rc.Phase.Phase) != nil
			},
			Action: func(rc RuleContext) models.Notification {
				e := environmentIssue(rc.Environment, rc.Phase.Phase)
				return notificationFor(rc, "environmental-alert", models.NotificationAlert, e.Priority,
					"🌡️ Condições Ambientais Inadequadas",
					fmt.Sprintf("%s no cultivo %s. %s.", e.Issue, rc.Cultivation.Name, e.Suggestion),
					utils.JSONMap{"issue": e.Issue, "suggestion": e.Suggestion, "parameter": e.Parameter})
			},
		},
	}
}

type envIssue struct {
	Parameter  string
	Issue      string
	Suggestion string
	Priority   models.NotificationPriority
}

// solutionBand is a target range for the nutrient solution. Readings are
// judged by their deviation from the midpoint, in percent.
type solutionBand struct {
	Min, Max          float64
	Warning, Critical float64
	Label string
}

func (b solutionBand) priority(v float64) (models.NotificationPriority, bool) {
	mid := (b.Min + b.Max) / 2
	deviation := math.Abs(v-mid) / mid * 100
	switch {
	case deviation >= b.Critical:
		return models.PriorityCritical, true
	case deviation >= b.Warning:
		return models.PriorityMedium, true
	}
	return "", false
}

var (
	phBand       = solutionBand{Min: 5.8, Max: 6.2, Warning: 20, Critical: 20}
	ecVegetative = solutionBand{Min: 1.0, Max: 1.6, Warning: 15, Critical: 20, Label: "fase vegetativa"}
	ecFlowering  = solutionBand{Min: 1.6, Max: 2.2, Warning: 15, Critical: 20, Label: "fase floração"}
)

// ecBandFor uses the vegetative band for every growing phase but flowering.
func ecBandFor(p phase.Phase) solutionBand {
	if p == phase.Flowering {
		return ecFlowering
	}
	return ecVegetative
}

// environmentIssue reports the first out-of-range reading, checking
// temperature, humidity, pH and EC in that order. pH and EC only matter while
// the plant is growing.
func environmentIssue(env *models.EnvironmentReading, p phase.Phase) *envIssue {
	if env == nil {
		return nil
	}
	if t := env.TemperatureC; t != nil {
		switch {
		case *t < 18:
			return &envIssue{"temperature", fmt.Sprintf("Temperatura muito baixa (%.1f°C)", *t), "Aumente aquecimento ou melhore isolamento", models.PriorityHigh}
		case *t > 30:
			return &envIssue{"temperature", fmt.Sprintf("Temperatura muito alta (%.1f°C)", *t), "Melhore ventilação ou adicione ar condicionado", models.PriorityHigh}
		}
	}
	if h := env.HumidityPct; h != nil {
		switch {
		case *h < 30:
			return &envIssue{"humidity", fmt.Sprintf("Umidade muito baixa (%.0f%%)", *h), "Use umidificador ou recipientes com água", models.PriorityHigh}
		case *h > 80:
			return &envIssue{"humidity", fmt.Sprintf("Umidade muito alta (%.0f%%)", *h), "Melhore ventilação ou use desumidificador", models.PriorityHigh}
		}
	}
	if !growing(p) {
		return nil
	}

	if ph := env.PH; ph != nil {
		if priority, off := phBand.priority(*ph); off {
			issue := &envIssue{Parameter: "ph", Priority: priority}
			if *ph > phBand.Max {
				issue.Issue = fmt.Sprintf("pH muito alto (%.1f)", *ph)
				issue.Suggestion = "Adicione pH down para reduzir o pH para 5.8-6.2"
			} else {
				issue.Issue = fmt.Sprintf("pH muito baixo (%.1f)", *ph)
				issue.Suggestion = "Adicione pH up para aumentar o pH para 5.8-6.2"
			}
			return issue
		}
	}
	if ec := env.EC; ec != nil {
		band := ecBandFor(p)
		if priority, off := band.priority(*ec); off {
			issue := &envIssue{Parameter: "ec", Priority: priority}
			if *ec > band.Max {
				issue.Issue = fmt.Sprintf("EC muito alta (%.2f mS/cm)", *ec)
				issue.Suggestion = fmt.Sprintf("Reduza nutrientes para EC %.1f-%.1f mS/cm (%s)", band.Min, band.Max, band.Label)
			} else {
				issue.Issue = fmt.Sprintf("EC muito baixa (%.2f mS/cm)", *ec)
				issue.Suggestion = fmt.Sprintf("Aumente nutrientes para EC %.1f-%.1f mS/cm (%s)", band.Min, band.Max, band.Label)
			}
			return issue
		}
	}
	return nil
}
