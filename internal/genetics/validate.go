package genetics

import (
	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/phase"
)

type ValidationReport struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
}

// ValidateCycleConfig flags configurations that are legal but agronomically
// unusual. It never rejects a cycle.
func ValidateCycleConfig(c adaptive.CycleParams) ValidationReport {
	warnings := []string{}

	switch c.PlantType {
	case phase.Autoflowering:
		if c.VegetativeDays > 35 {
			warnings = append(warnings, "Automáticas raramente precisam de mais de 35 dias vegetativos")
		}
		if c.VegLightHours != c.FlowerLightHours {
			warnings = append(warnings, "Automáticas podem usar o mesmo fotoperíodo durante todo o ciclo")
		}
		if c.TotalDays() > 100 {
			warnings = append(warnings, "Ciclo muito longo para uma automática (tipicamente 70-95 dias)")
		}
	case phase.Photoperiod:
		if c.FlowerLightHours != 12 {
			warnings = append(warnings, "Fotoperíodo de floração padrão é 12h para plantas fotoperiódicas")
		}
		if c.VegetativeDays < 21 {
			warnings = append(warnings, "Vegetativo muito curto pode limitar o desenvolvimento")
		}
	}

	if c.YieldPerPlantG > 300 {
		warnings = append(warnings, "Produção por planta muito alta - verifique se é realista")
	}
	if c.FloweringDays < 35 {
		warnings = append(warnings, "Floração muito curta - pode afetar a qualidade")
	}

	return ValidationReport{Valid: len(warnings) == 0, Warnings: warnings}
}
