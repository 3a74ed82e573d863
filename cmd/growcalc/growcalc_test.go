package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"cultivation-service/internal/phase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const calcScenario = `
setup:
  area_m2: 2.25
  custo_equip_iluminacao: 2000
  custo_tenda_estrutura: 1500
  custo_ventilacao_exaustao: 800
  custo_outros_equipamentos: 500
cycle:
  potencia_watts: 480
  num_plantas: 6
  producao_por_planta_g: 80
  dias_vegetativo: 60
  horas_luz_veg: 18
  dias_floracao: 70
  horas_luz_flor: 12
  dias_secagem_cura: 20
market:
  preco_kwh: 0.95
  custo_sementes_clones: 500
  custo_substrato: 120
  custo_nutrientes: 350
  custos_operacionais_misc: 100
  preco_venda_por_grama: 45
`

const adaptiveScenario = `
setup:
  area_m2: 1.2
  custo_equip_iluminacao: 1200
market:
  preco_kwh: 0.95
  preco_venda_por_grama: 45
cycle:
  plant_type: autoflowering
  genetics_name: Northern Lights Auto
  usar_presets_genetica: true
  dias_vegetativo: 30
  dias_floracao: 40
  dias_secagem_cura: 15
  horas_luz_veg: 20
  horas_luz_flor: 20
  potencia_watts: 300
  num_plantas: 4
  producao_por_planta_g: 40
`

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCalcCommand_JSON(t *testing.T) {
	out, err := run(t, "calc", "--json", writeScenario(t, calcScenario))
	require.NoError(t, err)

	var result map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 4800.0, result["custo_total_investimento"])
	assert.Equal(t, 480.0, result["producao_total_g"])
}

func TestCalcCommand_Text(t *testing.T) {
	out, err := run(t, "calc", writeScenario(t, calcScenario))
	require.NoError(t, err)
	assert.Contains(t, out, "Total investment")
	assert.Contains(t, out, "4800.00")
}

func TestCalcCommand_InvalidScenario(t *testing.T) {
	_, err := run(t, "calc", writeScenario(t, "setup:\n  area_m2: 0\n"))
	assert.ErrorContains(t, err, "invalid scenario")
}

func TestCalcCommand_MissingFile(t *testing.T) {
	_, err := run(t, "calc", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read scenario")
}

func TestAdaptiveCommand_AppliesGeneticsPreset(t *testing.T) {
	out, err := run(t, "adaptive", "--json", writeScenario(t, adaptiveScenario))
	require.NoError(t, err)

	var payload struct {
		Cycle struct {
			VegetativeDays int     `json:"dias_vegetativo"`
			Wattage        float64 `json:"potencia_watts"`
		} `json:"cycle"`
		Warnings []string `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.NotEqual(t, 30, payload.Cycle.VegetativeDays)
	assert.Equal(t, 300.0, payload.Cycle.Wattage)
	assert.NotNil(t, payload.Warnings)
}

func TestPhaseCommand(t *testing.T) {
	out, err := run(t, "phase", "--json", "--start", "2025-01-01", "--at", "2025-03-12", "--type", "photoperiod")
	require.NoError(t, err)

	var info phase.PhaseInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, 70, info.DaysSinceStart)
	assert.Equal(t, phase.Flowering, info.Phase)
}

func TestPhaseCommand_RequiresStart(t *testing.T) {
	_, err := run(t, "phase")
	assert.Error(t, err)
}

func TestPhaseCommand_UnknownGenetics(t *testing.T) {
	_, err := run(t, "phase", "--start", "2025-01-01", "--genetics", "no such strain")
	assert.ErrorContains(t, err, "unknown genetics")
}

func TestHarvestCommand(t *testing.T) {
	out, err := run(t, "harvest", "--start", "2025-01-01", "--type", "autoflowering")
	require.NoError(t, err)
	assert.Contains(t, out, "Confidence")
	assert.Contains(t, out, string(phase.ConfidenceHigh))
}

func TestHarvestCommand_InvalidType(t *testing.T) {
	_, err := run(t, "harvest", "--start", "2025-01-01", "--type", "hydro")
	assert.ErrorIs(t, err, phase.ErrInvalidPlantType)
}
