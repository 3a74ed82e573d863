package services

import (
	"context"
	"testing"
	"time"

	"cultivation-service/internal/calculator"
	"cultivation-service/internal/models"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCultivation(pt phase.PlantType, startedDaysAgo int) *models.Cultivation {
	return &models.Cultivation{
		ID:         uuid.New(),
		UserID:     "user-1",
		Name:       "Tenda 1",
		SeedStrain: "OG Kush",
		PlantType:  pt,
		Status:     models.CultivationActive,
		StartDate:  daysAgo(startedDaysAgo),
	}
}

func newTestCultivationService(repo *fakeCultivationRepo) *CultivationService {
	return &CultivationService{cultivationRepo: repo, now: fixedClock}
}

// ============================================================================
// CREATE
// ============================================================================

func TestCultivationService_Create_FillsFromGenetics(t *testing.T) {
	repo := newFakeCultivationRepo()
	svc := newTestCultivationService(repo)
	name := "Northern Lights Auto"

	c, err := svc.Create(context.Background(), "user-1", models.CreateCultivationRequest{
		Name:         "Auto 1",
		SeedStrain:   "NL Auto",
		PlantType:    phase.Autoflowering,
		GeneticsName: &name,
	})
	require.NoError(t, err)

	assert.Equal(t, "user-1", c.UserID)
	assert.Equal(t, models.CultivationActive, c.Status)
	assert.Equal(t, testNow, c.StartDate)

	require.True(t, c.TimelineOverrides.Valid)
	assert.Equal(t, 25, *c.TimelineOverrides.Data.VegetativeDays)
	assert.Equal(t, 40, *c.TimelineOverrides.Data.FloweringDays)

	require.True(t, c.CycleParams.Valid)
	assert.Equal(t, phase.Autoflowering, c.CycleParams.Data.PlantType)
	assert.Equal(t, 300.0, c.CycleParams.Data.Wattage)
	assert.Equal(t, 4, c.CycleParams.Data.PlantCount)

	assert.False(t, c.SetupParams.Valid)
	assert.Contains(t, repo.items, c.ID)
}

func TestCultivationService_Create_Preset(t *testing.T) {
	svc := newTestCultivationService(newFakeCultivationRepo())
	preset := "photo_standard"

	c, err := svc.Create(context.Background(), "user-1", models.CreateCultivationRequest{
		Name: "Foto", SeedStrain: "x", PlantType: phase.Photoperiod, CyclePresetID: &preset,
	})
	require.NoError(t, err)
	require.True(t, c.CycleParams.Valid)
	assert.Equal(t, 55, c.CycleParams.Data.VegetativeDays)
	assert.False(t, c.TimelineOverrides.Valid)
}

func TestCultivationService_Create_Errors(t *testing.T) {
	svc := newTestCultivationService(newFakeCultivationRepo())
	unknown := "no_such_preset"

	_, err := svc.Create(context.Background(), "user-1", models.CreateCultivationRequest{
		Name: "x", SeedStrain: "x", PlantType: phase.Photoperiod, CyclePresetID: &unknown,
	})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Create(context.Background(), "user-1", models.CreateCultivationRequest{
		Name: "x", SeedStrain: "x", PlantType: "hydro",
	})
	assert.ErrorIs(t, err, phase.ErrInvalidPlantType)
}

// ============================================================================
// OWNERSHIP AND UPDATES
// ============================================================================

func TestCultivationService_Get_Ownership(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 10)
	svc := newTestCultivationService(newFakeCultivationRepo(c))
	ctx := context.Background()

	got, err := svc.Get(ctx, "user-1", c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)

	_, err = svc.Get(ctx, "user-2", c.ID.String())
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.Get(ctx, "user-1", "not-a-uuid")
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = svc.Get(ctx, "user-1", uuid.NewString())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCultivationService_Update_CompletedSetsEndDate(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 150)
	repo := newFakeCultivationRepo(c)
	svc := newTestCultivationService(repo)
	status := models.CultivationCompleted
	name := "Tenda renomeada"

	got, err := svc.Update(context.Background(), "user-1", c.ID.String(), models.UpdateCultivationRequest{
		Status: &status,
		Name:   &name,
	})
	require.NoError(t, err)

	assert.Equal(t, models.CultivationCompleted, got.Status)
	assert.Equal(t, "Tenda renomeada", got.Name)
	require.NotNil(t, got.EndDate)
	assert.Equal(t, testNow, *got.EndDate)
}

func TestCultivationService_Update_NoFields(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 10)
	repo := newFakeCultivationRepo(c)
	svc := newTestCultivationService(repo)

	_, err := svc.Update(context.Background(), "user-1", c.ID.String(), models.UpdateCultivationRequest{})
	require.NoError(t, err)
	assert.Empty(t, repo.updates)
}

func TestUpdateFields(t *testing.T) {
	y := 420.0
	overrides := &phase.Overrides{}
	updates := updateFields(models.UpdateCultivationRequest{YieldG: &y, TimelineOverrides: overrides})

	assert.Equal(t, map[string]any{"yield_g": 420.0, "timeline_overrides": overrides}, updates)
}

func TestCultivationService_Delete(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 10)
	repo := newFakeCultivationRepo(c)
	svc := newTestCultivationService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), "user-2", c.ID.String()), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), "user-1", c.ID.String()))
	assert.NotContains(t, repo.items, c.ID)
}

// ============================================================================
// STATUS REPORT
// ============================================================================

func TestBuildStatusReport_CalendarProjection(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 65)

	report, err := BuildStatusReport(c, testNow)
	require.NoError(t, err)

	assert.Equal(t, phase.Flowering, report.Phase.Phase)
	assert.Equal(t, 5, report.Phase.DaysInCurrentPhase)
	assert.Equal(t, phase.ConfidenceLow, report.Harvest.Confidence)
	assert.False(t, report.ShouldStartFlowering)
	assert.NotNil(t, report.ConfigWarnings)
	assert.Nil(t, report.Results)
}

func TestBuildStatusReport_ObservedTransitions(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 180)
	flowering := daysAgo(120)
	c.FloweringDate = &flowering

	report, err := BuildStatusReport(c, testNow)
	require.NoError(t, err)

	assert.Equal(t, phase.Flowering, report.Phase.Phase)
	assert.Equal(t, 120, report.Phase.DaysInCurrentPhase)
	assert.True(t, report.Efficiency.PhaseOverrun)
}

func TestBuildStatusReport_WithEconomics(t *testing.T) {
	c := newCultivation(phase.Autoflowering, 30)
	c.SetupParams = utils.NewJSONB(calculator.SetupParams{AreaM2: 1, LightingEquipmentCost: 1000})
	c.MarketParams = utils.NewJSONB(calculator.MarketParams{PricePerKWh: 0.8, SalePricePerGram: 20})

	report, err := BuildStatusReport(c, testNow)
	require.NoError(t, err)
	require.NotNil(t, report.Results)
	assert.Equal(t, phase.Autoflowering, report.Results.PlantTypeMetrics.Type)
	assert.Greater(t, report.Results.TotalProductionG, 0.0)
}

func TestCultivationService_Status(t *testing.T) {
	c := newCultivation(phase.Photoperiod, 10)
	svc := newTestCultivationService(newFakeCultivationRepo(c))

	report, err := svc.Status(context.Background(), "user-1", c.ID.String(), testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, c.ID, report.Cultivation.ID)
	assert.Equal(t, phase.Seedling, report.Phase.Phase)
}
