package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"cultivation-service/internal/models"
	"cultivation-service/internal/phase"
	"cultivation-service/internal/repository"
	"cultivation-service/internal/utils"
)

type IEventService interface {
	Create(ctx context.Context, userID, cultivationID string, req models.CreateEventRequest) (*models.CultivationEvent, error)
	List(ctx context.Context, userID, cultivationID string) ([]models.CultivationEvent, error)
	Delete(ctx context.Context, userID, eventID string) error
}

type EventService struct {
	cultivationRepo repository.ICultivationRepository
	eventRepo       repository.IEventRepository
	now             func() time.Time
}

func NewEventService(cultivationRepo repository.ICultivationRepository, eventRepo repository.IEventRepository) IEventService {
	return &EventService{cultivationRepo: cultivationRepo, eventRepo: eventRepo, now: time.Now}
}

func (s *EventService) Create(ctx context.Context, userID, cultivationID string, req models.CreateEventRequest) (*models.CultivationEvent, error) {
	c, err := loadOwned(ctx, s.cultivationRepo, userID, cultivationID)
	if err != nil {
		return nil, err
	}

	date := req.Date
	if date.IsZero() {
		date = s.now()
	}
	if date.Before(c.StartDate) {
		return nil, badRequest("event date is before the cultivation start")
	}

	updates, err := cultivationUpdatesForEvent(c, req.Type, req.Details, date)
	if err != nil {
		return nil, err
	}

	e := &models.CultivationEvent{
		CultivationID: c.ID,
		UserID:        userID,
		Type:          req.Type,
		Title:         req.Title,
		Description:   req.Description,
		EventDate:     date,
		Details:       utils.JSONMap(req.Details),
	}
	if err := s.eventRepo.Create(ctx, e, updates); err != nil {
		return nil, err
	}

	if len(updates) > 0 {
		slog.Info("Cultivation updated from event",
			"cultivation_id", c.ID,
			"event_type", req.Type,
			"fields", len(updates))
	}
	return e, nil
}

// phaseColumns maps a recorded phase to the cultivation column holding its
// transition date.
var phaseColumns = map[phase.Phase]string{
	phase.Flowering: "flowering_date",
	phase.Drying:    "harvest_date",
	phase.Curing:    "curing_date",
	phase.Completed: "end_date",
}

// cultivationUpdatesForEvent derives cultivation changes from an event:
// phase_change events record transition dates, harvests fill the harvest date
// and severe problems raise the problem flag.
func cultivationUpdatesForEvent(c *models.Cultivation, t models.EventType, details map[string]any, at time.Time) (map[string]any, error) {
	updates := map[string]any{}

	switch t {
	case models.EventPhaseChange:
		p := recordedPhase(details)
		column, ok := phaseColumns[p]
		if !ok {
			return nil, badRequest("details.phase must be one of flowering, drying, curing, completed")
		}
		if p == phase.Flowering && !c.PlantType.RequiresLightSwitch() {
			return nil, badRequest("autoflowering plants start flowering on their own")
		}
		updates[column] = at
		if p == phase.Completed {
			updates["status"] = models.CultivationCompleted
		}
	case models.EventHarvest:
		if c.HarvestDate == nil {
			updates["harvest_date"] = at
		}
		if y, ok := details["yield_g"].(float64); ok && y >= 0 {
			updates["yield_g"] = y
		}
	case models.EventProblem:
		if sev, _ := details["severity"].(string); isSevere(sev) && !c.HasSevereProblems {
			updates["has_severe_problems"] = true
		}
	}
	return updates, nil
}

func recordedPhase(details map[string]any) phase.Phase {
	raw, _ := details["phase"].(string)
	return phase.Phase(strings.ToLower(strings.TrimSpace(raw)))
}

// cultivationUpdatesForDeletedEvent recomputes the transition date a deleted
// phase_change event had set. The latest remaining event that records the same
// transition wins; with none left the column is cleared, and a completed
// cultivation goes back to active.
func cultivationUpdatesForDeletedEvent(c *models.Cultivation, deleted *models.CultivationEvent, remaining []models.CultivationEvent) map[string]any {
	if deleted.Type != models.EventPhaseChange {
		return nil
	}
	p := recordedPhase(deleted.Details)
	column, ok := phaseColumns[p]
	if !ok {
		return nil
	}

	var latest *time.Time
	for i := range remaining {
		e := &remaining[i]
		if e.ID == deleted.ID {
			continue
		}
		sets := e.Type == models.EventPhaseChange && recordedPhase(e.Details) == p
		// Harvest events fill the harvest date too.
		if column == "harvest_date" && e.Type == models.EventHarvest {
			sets = true
		}
		if sets && (latest == nil || e.EventDate.After(*latest)) {
			latest = &e.EventDate
		}
	}

	updates := map[string]any{}
	if latest != nil {
		updates[column] = *latest
		return updates
	}
	updates[column] = nil
	if p == phase.Completed && c.Status == models.CultivationCompleted {
		updates["status"] = models.CultivationActive
	}
	return updates
}

func isSevere(severity string) bool {
	switch strings.ToLower(severity) {
	case "high", "severe", "critical", "alta", "grave", "critica", "crítica":
		return true
	}
	return false
}

func (s *EventService) List(ctx context.Context, userID, cultivationID string) ([]models.CultivationEvent, error) {
	c, err := loadOwned(ctx, s.cultivationRepo, userID, cultivationID)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.ListByCultivation(ctx, c.ID)
}

func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	id, err := parseID("event id", eventID)
	if err != nil {
		return err
	}
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.UserID != userID {
		return ErrForbidden
	}

	var updates map[string]any
	if e.Type == models.EventPhaseChange {
		c, err := s.cultivationRepo.GetByID(ctx, e.CultivationID)
		if err != nil {
			return err
		}
		remaining, err := s.eventRepo.ListByCultivation(ctx, c.ID)
		if err != nil {
			return err
		}
		updates = cultivationUpdatesForDeletedEvent(c, e, remaining)
	}

	if err := s.eventRepo.Delete(ctx, e, updates); err != nil {
		return err
	}
	if len(updates) > 0 {
		slog.Info("Phase transition reverted",
			"cultivation_id", e.CultivationID,
			"event_id", e.ID,
			"fields", len(updates))
	}
	return nil
}
