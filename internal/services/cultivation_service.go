package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cultivation-service/internal/adaptive"
	"cultivation-service/internal/genetics"
	"cultivation-service/internal/models"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/utils"

	"github.com/google/uuid"
)

type ICultivationService interface {
	Create(ctx context.Context, userID string, req models.CreateCultivationRequest) (*models.Cultivation, error)
	Get(ctx context.Context, userID, id string) (*models.Cultivation, error)
	List(ctx context.Context, userID string, limit, offset int) ([]models.Cultivation, error)
	Update(ctx context.Context, userID, id string, req models.UpdateCultivationRequest) (*models.Cultivation, error)
	Delete(ctx context.Context, userID, id string) error
	Status(ctx context.Context, userID, id string, now time.Time) (*models.CultivationStatusReport, error)
}

type CultivationService struct {
	cultivationRepo repository.ICultivationRepository
	now             func() time.Time
}

func NewCultivationService(cultivationRepo repository.ICultivationRepository) ICultivationService {
	return &CultivationService{cultivationRepo: cultivationRepo, now: time.Now}
}

// loadOwned fetches a cultivation and checks that userID owns it.
func loadOwned(ctx context.Context, repo repository.ICultivationRepository, userID, rawID string) (*models.Cultivation, error) {
	id, err := parseID("cultivation id", rawID)
	if err != nil {
		return nil, err
	}
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *CultivationService) Create(ctx context.Context, userID string, req models.CreateCultivationRequest) (*models.Cultivation, error) {
	if err := req.PlantType.Validate(); err != nil {
		return nil, err
	}

	start := req.StartDate
	if start.IsZero() {
		start = s.now()
	}

	overrides := req.TimelineOverrides
	if overrides.IsEmpty() && req.GeneticsName != nil {
		if o, ok := genetics.TimelineOverrides(*req.GeneticsName); ok {
			overrides = o
		}
	}

	cycle, err := resolveCycle(req)
	if err != nil {
		return nil, err
	}

	c := &models.Cultivation{
		ID:                uuid.New(),
		UserID:            userID,
		Name:              req.Name,
		SeedStrain:        req.SeedStrain,
		PlantType:         req.PlantType,
		GeneticsName:      req.GeneticsName,
		CyclePresetID:     req.CyclePresetID,
		Status:            models.CultivationActive,
		StartDate:         start,
		SetupParams:       utils.JSONBFromPtr(req.SetupParams),
		CycleParams:       utils.JSONBFromPtr(cycle),
		MarketParams:      utils.JSONBFromPtr(req.MarketParams),
		TimelineOverrides: utils.JSONBFromPtr(overrides),
	}
	if err := s.cultivationRepo.Create(ctx, c); err != nil {
		return nil, err
	}

	slog.Info("Cultivation created",
		"cultivation_id", c.ID,
		"user_id", userID,
		"plant_type", c.PlantType)
	return c, nil
}

// resolveCycle picks explicit cycle params first, then a preset, then the
// genetics catalogue.
func resolveCycle(req models.CreateCultivationRequest) (*adaptive.CycleParams, error) {
	if req.CycleParams != nil {
		return req.CycleParams, nil
	}
	if req.CyclePresetID != nil {
		p, ok := genetics.PresetByID(*req.CyclePresetID)
		if !ok {
			return nil, badRequest("unknown cycle preset %q", *req.CyclePresetID)
		}
		cycle := p.Cycle
		return &cycle, nil
	}
	if req.GeneticsName != nil {
		cycle, err := genetics.CycleConfigFromGenetics(*req.GeneticsName, req.PlantType)
		if err != nil {
			return nil, err
		}
		return &cycle, nil
	}
	return nil, nil
}

func (s *CultivationService) Get(ctx context.Context, userID, id string) (*models.Cultivation, error) {
	return loadOwned(ctx, s.cultivationRepo, userID, id)
}

func (s *CultivationService) List(ctx context.Context, userID string, limit, offset int) ([]models.Cultivation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.cultivationRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *CultivationService) Update(ctx context.Context, userID, id string, req models.UpdateCultivationRequest) (*models.Cultivation, error) {
	c, err := loadOwned(ctx, s.cultivationRepo, userID, id)
	if err != nil {
		return nil, err
	}

	updates := updateFields(req)
	if req.Status != nil && *req.Status == models.CultivationCompleted && req.EndDate == nil && c.EndDate == nil {
		updates["end_date"] = s.now()
	}
	if len(updates) == 0 {
		return c, nil
	}

	if err := s.cultivationRepo.Update(ctx, c.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to update cultivation: %w", err)
	}
	return s.cultivationRepo.GetByID(ctx, c.ID)
}

func updateFields(req models.UpdateCultivationRequest) map[string]any {
	updates := map[string]any{}
	set := func(column string, isSet bool, value any) {
		if isSet {
			updates[column] = value
		}
	}

	set("name", req.Name != nil, deref(req.Name))
	set("seed_strain", req.SeedStrain != nil, deref(req.SeedStrain))
	set("status", req.Status != nil, deref(req.Status))
	set("end_date", req.EndDate != nil, deref(req.EndDate))
	set("flowering_date", req.FloweringDate != nil, deref(req.FloweringDate))
	set("harvest_date", req.HarvestDate != nil, deref(req.HarvestDate))
	set("curing_date", req.CuringDate != nil, deref(req.CuringDate))
	set("yield_g", req.YieldG != nil, deref(req.YieldG))
	set("profit_brl", req.ProfitBRL != nil, deref(req.ProfitBRL))
	set("photo_url", req.PhotoURL != nil, deref(req.PhotoURL))
	set("has_severe_problems", req.HasSevereProblems != nil, deref(req.HasSevereProblems))
	set("setup_params", req.SetupParams != nil, req.SetupParams)
	set("cycle_params", req.CycleParams != nil, req.CycleParams)
	set("market_params", req.MarketParams != nil, req.MarketParams)
	set("timeline_overrides", req.TimelineOverrides != nil, req.TimelineOverrides)
	return updates
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (s *CultivationService) Delete(ctx context.Context, userID, id string) error {
	c, err := loadOwned(ctx, s.cultivationRepo, userID, id)
	if err != nil {
		return err
	}
	return s.cultivationRepo.Delete(ctx, c.ID)
}

func (s *CultivationService) Status(ctx context.Context, userID, id string, now time.Time) (*models.CultivationStatusReport, error) {
	c, err := loadOwned(ctx, s.cultivationRepo, userID, id)
	if err != nil {
		return nil, err
	}
	return BuildStatusReport(c, now)
}

// BuildStatusReport places a cultivation on its timeline. Recorded phase
// transitions take precedence over the calendar projection.
func BuildStatusReport(c *models.Cultivation, now time.Time) (*models.CultivationStatusReport, error) {
	overrides := c.TimelineOverrides.Ptr()

	var info phase.PhaseInfo
	var err error
	if tr := c.Transitions(); !tr.IsEmpty() {
		info, err = phase.ObservedPhase(c.StartDate, c.PlantType, overrides, tr, now)
	} else {
		info, err = phase.CalculateCultivationPhase(c.StartDate, c.PlantType, overrides, now)
	}
	if err != nil {
		return nil, err
	}

	schedule, err := phase.PredictHarvestSchedule(c.StartDate, c.PlantType, overrides)
	if err != nil {
		return nil, err
	}

	cycle, err := cycleFor(c)
	if err != nil {
		return nil, err
	}

	efficiency, err := phase.CalculateCycleEfficiency(info, c.PlantType, cycle.ExpectedYield(), c.YieldG)
	if err != nil {
		return nil, err
	}

	report := &models.CultivationStatusReport{
		Cultivation:          c,
		Phase:                info,
		Harvest:              schedule,
		Efficiency:           efficiency,
		ShouldStartFlowering: phase.ShouldTransitionToFlowering(info, c.PlantType, false),
		ConfigWarnings:       genetics.ValidateCycleConfig(cycle).Warnings,
	}
	if report.ConfigWarnings == nil {
		report.ConfigWarnings = []string{}
	}

	if c.SetupParams.Valid && c.MarketParams.Valid {
		results, err := adaptive.CalculateAdaptiveResults(c.SetupParams.Data, cycle, c.MarketParams.Data)
		if err != nil {
			return nil, err
		}
		report.Results = &results
	}
	return report, nil
}

// cycleFor returns the stored cycle params or the plant type defaults.
func cycleFor(c *models.Cultivation) (adaptive.CycleParams, error) {
	if c.CycleParams.Valid {
		return c.CycleParams.Data, nil
	}
	return genetics.DefaultCycleConfig(c.PlantType)
}
